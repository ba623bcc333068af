package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"infinitebz/internal/domain"

	"github.com/lib/pq"
)

// pgInvalidTextRepresentation is raised when a malformed uuid is compared against a uuid column.
const pgInvalidTextRepresentation = "22P02"

const draftSchema = `
CREATE TABLE IF NOT EXISTS event_drafts (
	id         UUID PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	snapshot   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS event_drafts_owner_updated_idx ON event_drafts (owner_id, updated_at DESC);
`

// Migrate creates the tables used by this package if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, draftSchema); err != nil {
		return fmt.Errorf("migrate event_drafts: %w", err)
	}
	return nil
}

type draftRepository struct {
	DB *sql.DB
}

// NewDraftRepository returns a domain.DraftRepository implemented with Postgres.
func NewDraftRepository(db *sql.DB) domain.DraftRepository {
	return &draftRepository{DB: db}
}

// Save upserts the snapshot. A row owned by someone else is refused with
// ErrForbidden; a row already holding a newer snapshot is left untouched.
func (r *draftRepository) Save(ctx context.Context, rec *domain.DraftRecord) error {
	snapshot, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("encode draft snapshot: %w", err)
	}
	query := `
		INSERT INTO event_drafts (id, owner_id, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at
		WHERE event_drafts.owner_id = EXCLUDED.owner_id
		  AND event_drafts.updated_at <= EXCLUDED.updated_at
	`
	result, err := r.DB.ExecContext(ctx, query, rec.ID, rec.OwnerID, snapshot, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		return nil
	}

	var owner string
	err = r.DB.QueryRowContext(ctx, `SELECT owner_id FROM event_drafts WHERE id = $1`, rec.ID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("draft %s vanished during save: %w", rec.ID, domain.ErrNotFound)
		}
		return err
	}
	if owner != rec.OwnerID {
		return domain.ErrForbidden
	}
	return nil
}

func (r *draftRepository) GetByID(ctx context.Context, id string) (*domain.DraftRecord, error) {
	query := `
		SELECT id, owner_id, snapshot, created_at, updated_at
		FROM event_drafts
		WHERE id = $1
	`
	rec, err := scanDraft(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *draftRepository) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.DraftRecord, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_drafts WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.DraftRecord{}, 0, nil
	}

	query := `
		SELECT id, owner_id, snapshot, created_at, updated_at
		FROM event_drafts
		WHERE owner_id = $1
		ORDER BY updated_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []*domain.DraftRecord{}
	for rows.Next() {
		rec, err := scanDraft(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM event_drafts WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*domain.DraftRecord, error) {
	rec := &domain.DraftRecord{}
	var snapshot []byte
	if err := row.Scan(&rec.ID, &rec.OwnerID, &snapshot, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("decode draft %s snapshot: %w", rec.ID, err)
	}
	return rec, nil
}

func isInvalidText(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == pgInvalidTextRepresentation
}
