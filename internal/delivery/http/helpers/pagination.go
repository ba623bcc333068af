package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"infinitebz/internal/domain"
)

// Draft list paging. An organizer rarely keeps more than a handful of drafts.
const (
	DefaultDraftPageSize = 10
	MaxDraftPageSize     = 50
)

// ParseDraftListQuery reads page and page_size from the query string of a draft
// list request. Missing values take the defaults and an oversized page_size is
// clamped; anything that is not a positive integer is refused.
func ParseDraftListQuery(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	page, err := positiveQueryInt(q.Get("page"), "page", 1)
	if err != nil {
		return domain.PaginationParams{}, err
	}
	size, err := positiveQueryInt(q.Get("page_size"), "page_size", DefaultDraftPageSize)
	if err != nil {
		return domain.PaginationParams{}, err
	}
	return domain.PaginationParams{Page: page, PageSize: min(size, MaxDraftPageSize)}, nil
}

func positiveQueryInt(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, domain.ErrInvalidInput)
	}
	return v, nil
}

// PaginationMeta describes the page of drafts returned alongside it.
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewPaginationMeta describes the page params selected out of total drafts.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: params.Page, PageSize: params.PageSize, Total: total}
	if params.PageSize > 0 {
		meta.TotalPages = (total + params.PageSize - 1) / params.PageSize
	}
	_, end := params.Window(total)
	meta.HasMore = end < total
	return meta
}
