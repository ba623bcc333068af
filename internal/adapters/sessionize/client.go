package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"infinitebz/internal/domain"
)

// DefaultBaseURL is the public Sessionize API root.
const DefaultBaseURL = "https://sessionize.com/api/v2"

type sessionizeHTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher returns a fetcher that calls the Sessionize API at baseURL.
func NewHTTPFetcher(baseURL string, client *http.Client) domain.SessionizeFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &sessionizeHTTPFetcher{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (f *sessionizeHTTPFetcher) Fetch(ctx context.Context, sessionizeID string) (domain.SessionizeSchedule, error) {
	if strings.TrimSpace(sessionizeID) == "" {
		return domain.SessionizeSchedule{}, fmt.Errorf("sessionize id is required: %w", domain.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("%s/%s/view/All", f.baseURL, url.PathEscape(sessionizeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.SessionizeSchedule{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return domain.SessionizeSchedule{}, fmt.Errorf("failed to fetch from sessionize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.SessionizeSchedule{}, fmt.Errorf("sessionize event %q: %w", sessionizeID, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.SessionizeSchedule{}, fmt.Errorf("sessionize api returned status: %d", resp.StatusCode)
	}

	var data domain.SessionizeSchedule
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.SessionizeSchedule{}, fmt.Errorf("failed to decode sessionize response: %w", err)
	}
	return data, nil
}
