package domain

import (
	"context"
	"io"
	"time"

	"infinitebz/internal/draft"
	"infinitebz/internal/submission"
)

// DraftRecord is an autosaved draft.
type DraftRecord struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Snapshot  draft.Snapshot `json:"snapshot"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DraftRepository persists draft snapshots between requests and restarts.
type DraftRepository interface {
	// Save inserts the record or replaces the stored snapshot.
	Save(ctx context.Context, rec *DraftRecord) error
	GetByID(ctx context.Context, id string) (*DraftRecord, error)
	ListByOwnerID(ctx context.Context, ownerID string, params PaginationParams) ([]*DraftRecord, int, error)
	Delete(ctx context.Context, id string) error
}

// DraftView is a draft as returned to its owner.
// swagger:model DraftView
type DraftView struct {
	ID                string             `json:"id"`
	Draft             draft.Draft        `json:"draft"`
	DescriptionLength int                `json:"description_length"`
	DescriptionLimit  int                `json:"description_limit"`
	Submission        submission.Outcome `json:"submission"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// DraftSummary is one row of the owner's draft list.
// swagger:model DraftSummary
type DraftSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"start_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftService owns create-event drafts and their submission.
type DraftService interface {
	Create(ctx context.Context, sess *Session, timezone string) (*DraftView, error)
	Get(ctx context.Context, sess *Session, draftID string) (*DraftView, error)
	List(ctx context.Context, sess *Session, params PaginationParams) ([]*DraftSummary, int, error)
	Discard(ctx context.Context, sess *Session, draftID string) error

	SetField(ctx context.Context, sess *Session, draftID string, field draft.Field, value draft.Value) (*DraftView, error)
	SetMode(ctx context.Context, sess *Session, draftID string, mode draft.Mode) (*DraftView, error)

	AddAgendaItem(ctx context.Context, sess *Session, draftID string) (*DraftView, draft.ItemID, error)
	UpdateAgendaItem(ctx context.Context, sess *Session, draftID string, itemID draft.ItemID, field draft.AgendaField, value string) (*DraftView, error)
	RemoveAgendaItem(ctx context.Context, sess *Session, draftID string, itemID draft.ItemID) (*DraftView, error)

	AddSpeaker(ctx context.Context, sess *Session, draftID string) (*DraftView, draft.ItemID, error)
	UpdateSpeaker(ctx context.Context, sess *Session, draftID string, itemID draft.ItemID, field draft.SpeakerField, value string) (*DraftView, error)
	RemoveSpeaker(ctx context.Context, sess *Session, draftID string, itemID draft.ItemID) (*DraftView, error)

	AddTag(ctx context.Context, sess *Session, draftID, raw string) (*DraftView, error)
	RemoveTag(ctx context.Context, sess *Session, draftID, tag string) (*DraftView, error)

	Payload(ctx context.Context, sess *Session, draftID string) (draft.Payload, error)
	UploadImage(ctx context.Context, sess *Session, draftID, filename string, r io.Reader) (*DraftView, error)
	ImportSessionize(ctx context.Context, sess *Session, draftID, sessionizeID string) (*DraftView, error)
	Submit(ctx context.Context, sess *Session, draftID string) (submission.Outcome, error)
}
