package domain

import (
	"context"
	"io"

	"infinitebz/internal/draft"
)

// CreatedEvent is the part of the upstream creation response we rely on.
// ExternalID is empty when the response did not carry one.
type CreatedEvent struct {
	ExternalID string `json:"eventbrite_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// EventCreator is the upstream event API used by the submission flow.
type EventCreator interface {
	CreateEvent(ctx context.Context, sess *Session, payload draft.Payload) (*CreatedEvent, error)
	// UploadImage stores an image upstream and returns its hosted URL.
	UploadImage(ctx context.Context, sess *Session, filename string, r io.Reader) (string, error)
}
