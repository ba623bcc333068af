package infinitebz

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"infinitebz/internal/domain"
)

const unknownErrorMessage = "Unknown error"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the upstream API. Message is the server's
// human-readable text and is shown to the user as is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("infinitebz api returned status %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server's message verbatim.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Unwrap maps 401 to domain.ErrUnauthorized so callers can invalidate the session.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	return nil
}

func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
}

// errorMessage picks "message", then "detail" (a string, or a list of
// validation errors with "msg"), from an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return unknownErrorMessage
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Detail) == 0 {
		return unknownErrorMessage
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil && detail != "" {
		return detail
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return unknownErrorMessage
}
