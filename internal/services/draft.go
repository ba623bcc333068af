package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
	"infinitebz/internal/submission"
)

// Default retention of live drafts, see DraftServiceDeps.
const (
	DefaultIdleTTL      = 2 * time.Hour
	DefaultSucceededTTL = 10 * time.Minute
)

// sweepInterval bounds how often live drafts are scanned for eviction.
const sweepInterval = time.Minute

// DraftServiceDeps are the collaborators of the draft service. Repo and Emails may be nil.
//
// IdleTTL evicts drafts nobody touched for that long; with a Repo they are
// restored from autosave on the next access. SucceededTTL is how long a
// submitted draft stays readable before it is dropped.
type DraftServiceDeps struct {
	Repo            domain.DraftRepository
	Events          domain.EventCreator
	Sessions        domain.SessionService
	Sessionize      domain.SessionizeFetcher
	Emails          domain.EmailService
	ShareBaseURL    string
	DefaultTimezone string
	Timeout         time.Duration
	IdleTTL         time.Duration
	SucceededTTL    time.Duration
	Logger          *slog.Logger
}

// draftEntry is one live editing session. The time fields and unsaved are guarded by draftService.mu.
type draftEntry struct {
	id      string
	ownerID string
	store   *draft.Store
	gate    *submission.Gate

	// saveMu keeps an edit and its autosave together so snapshots reach the repository in edit order.
	saveMu sync.Mutex

	createdAt   time.Time
	updatedAt   time.Time
	lastSeen    time.Time
	succeededAt time.Time
	// unsaved is set while the latest edit is missing from the autosave store.
	unsaved bool
}

type draftService struct {
	repo            domain.DraftRepository
	events          domain.EventCreator
	sessions        domain.SessionService
	sessionize      domain.SessionizeFetcher
	emails          domain.EmailService
	shareBaseURL    string
	defaultTimezone string
	contextTimeout  time.Duration
	idleTTL         time.Duration
	succeededTTL    time.Duration
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string

	mu        sync.Mutex
	drafts    map[string]*draftEntry
	lastSweep time.Time
}

// NewDraftService returns the DraftService backed by deps.
func NewDraftService(deps DraftServiceDeps) domain.DraftService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tz := deps.DefaultTimezone
	if tz == "" {
		tz = "UTC"
	}
	idleTTL, succeededTTL := deps.IdleTTL, deps.SucceededTTL
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if succeededTTL <= 0 {
		succeededTTL = DefaultSucceededTTL
	}
	return &draftService{
		repo:            deps.Repo,
		events:          deps.Events,
		sessions:        deps.Sessions,
		sessionize:      deps.Sessionize,
		emails:          deps.Emails,
		shareBaseURL:    deps.ShareBaseURL,
		defaultTimezone: tz,
		contextTimeout:  deps.Timeout,
		idleTTL:         idleTTL,
		succeededTTL:    succeededTTL,
		logger:          logger,
		now:             time.Now,
		newID:           uuid.NewString,
		drafts:          make(map[string]*draftEntry),
	}
}

func (s *draftService) Create(ctx context.Context, sess *domain.Session, timezone string) (*domain.DraftView, error) {
	if timezone == "" {
		timezone = s.defaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, domain.ErrInvalidInput)
	}
	now := s.now()
	d := draft.New(timezone)
	e := &draftEntry{
		id:        s.newID(),
		ownerID:   sess.Subject,
		store:     draft.NewStore(d),
		gate:      submission.NewGate(s.shareBaseURL, s.logger),
		createdAt: now,
		updatedAt: now,
		lastSeen:  now,
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	s.mu.Lock()
	s.sweepLocked(ctx, now)
	s.drafts[e.id] = e
	s.mu.Unlock()

	s.autosave(ctx, e, d)
	s.logger.InfoContext(ctx, "draft created", "draft_id", e.id, "owner", e.ownerID)
	return s.view(e, d), nil
}

func (s *draftService) Get(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	return s.view(e, e.store.Snapshot()), nil
}

func (s *draftService) List(ctx context.Context, sess *domain.Session, params domain.PaginationParams) ([]*domain.DraftSummary, int, error) {
	if s.repo != nil {
		ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
		defer cancel()
		records, total, err := s.repo.ListByOwnerID(ctx, sess.Subject, params)
		if err != nil {
			return nil, 0, fmt.Errorf("list drafts: %w", err)
		}
		out := make([]*domain.DraftSummary, 0, len(records))
		for _, rec := range records {
			out = append(out, &domain.DraftSummary{
				ID:        rec.ID,
				Title:     rec.Snapshot.Title,
				StartDate: rec.Snapshot.StartDate,
				UpdatedAt: rec.UpdatedAt,
			})
		}
		return out, total, nil
	}

	s.mu.Lock()
	s.sweepLocked(ctx, s.now())
	all := make([]*domain.DraftSummary, 0)
	for _, e := range s.drafts {
		if e.ownerID != sess.Subject {
			continue
		}
		d := e.store.Snapshot()
		all = append(all, &domain.DraftSummary{ID: e.id, Title: d.Title, StartDate: d.StartDate, UpdatedAt: e.updatedAt})
	}
	s.mu.Unlock()

	slices.SortFunc(all, func(a, b *domain.DraftSummary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	start, end := params.Window(len(all))
	return all[start:end], len(all), nil
}

func (s *draftService) Discard(ctx context.Context, sess *domain.Session, draftID string) error {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return err
	}
	if e.gate.State() == submission.Submitting {
		return fmt.Errorf("discard draft: %w", submission.ErrInFlight)
	}
	s.forget(ctx, e)
	s.logger.InfoContext(ctx, "draft discarded", "draft_id", e.id)
	return nil
}

func (s *draftService) SetField(ctx context.Context, sess *domain.Session, draftID string, field draft.Field, value draft.Value) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.WithField(field, value)
	})
}

func (s *draftService) SetMode(ctx context.Context, sess *domain.Session, draftID string, mode draft.Mode) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.WithMode(mode)
	})
}

func (s *draftService) AddAgendaItem(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, draft.ItemID, error) {
	var id draft.ItemID
	view, err := s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		d, id = d.AddAgendaItem()
		return d, nil
	})
	return view, id, err
}

func (s *draftService) UpdateAgendaItem(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID, field draft.AgendaField, value string) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.UpdateAgendaItem(itemID, field, value)
	})
}

func (s *draftService) RemoveAgendaItem(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.RemoveAgendaItem(itemID), nil
	})
}

func (s *draftService) AddSpeaker(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, draft.ItemID, error) {
	var id draft.ItemID
	view, err := s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		d, id = d.AddSpeaker()
		return d, nil
	})
	return view, id, err
}

func (s *draftService) UpdateSpeaker(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID, field draft.SpeakerField, value string) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.UpdateSpeaker(itemID, field, value)
	})
}

func (s *draftService) RemoveSpeaker(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.RemoveSpeaker(itemID), nil
	})
}

func (s *draftService) AddTag(ctx context.Context, sess *domain.Session, draftID, raw string) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.AddTag(raw), nil
	})
}

func (s *draftService) RemoveTag(ctx context.Context, sess *domain.Session, draftID, tag string) (*domain.DraftView, error) {
	return s.mutate(ctx, sess, draftID, func(d draft.Draft) (draft.Draft, error) {
		return d.RemoveTag(tag), nil
	})
}

func (s *draftService) Payload(ctx context.Context, sess *domain.Session, draftID string) (draft.Payload, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return draft.Payload{}, err
	}
	return draft.Assemble(e.store.Snapshot()), nil
}

func (s *draftService) UploadImage(ctx context.Context, sess *domain.Session, draftID, filename string, r io.Reader) (*domain.DraftView, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if e.gate.State() == submission.Succeeded {
		return nil, submission.ErrAlreadySucceeded
	}
	uploadCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	url, err := s.events.UploadImage(uploadCtx, sess, filename, r)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", invalidateOnUnauthorized(s.sessions, sess, err))
	}
	return s.apply(ctx, e, func(d draft.Draft) (draft.Draft, error) {
		return d.WithField(draft.FieldImageURL, draft.Text(url))
	})
}

func (s *draftService) ImportSessionize(ctx context.Context, sess *domain.Session, draftID, sessionizeID string) (*domain.DraftView, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if e.gate.State() == submission.Succeeded {
		return nil, submission.ErrAlreadySucceeded
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	schedule, err := s.sessionize.Fetch(fetchCtx, sessionizeID)
	if err != nil {
		return nil, fmt.Errorf("import sessionize %s: %w", sessionizeID, err)
	}
	view, err := s.apply(ctx, e, func(d draft.Draft) (draft.Draft, error) {
		return importSchedule(d, schedule)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "sessionize schedule imported",
		"draft_id", e.id, "sessionize_id", sessionizeID,
		"sessions", len(schedule.Sessions), "speakers", len(schedule.Speakers))
	return view, nil
}

func (s *draftService) Submit(ctx context.Context, sess *domain.Session, draftID string) (submission.Outcome, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return submission.Outcome{}, err
	}
	if e.gate.State() == submission.Succeeded {
		return e.gate.Outcome(), submission.ErrAlreadySucceeded
	}
	d := e.store.Snapshot()
	if err := draft.CheckPreconditions(d); err != nil {
		return e.gate.Outcome(), fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	out, err := e.gate.Submit(submitCtx, d, func(ctx context.Context, p draft.Payload) (string, error) {
		created, err := s.events.CreateEvent(ctx, sess, p)
		if err != nil {
			return "", err
		}
		return created.ExternalID, nil
	})
	if err != nil {
		return out, err
	}

	switch out.State {
	case submission.Failed:
		invalidateOnUnauthorized(s.sessions, sess, out.Err)
	case submission.Succeeded:
		s.mu.Lock()
		if e.succeededAt.IsZero() {
			e.succeededAt = s.now()
		}
		s.mu.Unlock()
		s.dropAutosave(ctx, e.id)
		s.notifyPublished(ctx, sess, d, out)
	}
	return out, nil
}

// lookup returns the caller's draft, restoring it from the autosave store when it is not live.
// Drafts of other owners are reported as not found.
func (s *draftService) lookup(ctx context.Context, sess *domain.Session, draftID string) (*draftEntry, error) {
	s.mu.Lock()
	now := s.now()
	s.sweepLocked(ctx, now)
	e, ok := s.drafts[draftID]
	if ok && e.ownerID == sess.Subject {
		e.lastSeen = now
	}
	s.mu.Unlock()
	if ok {
		if e.ownerID != sess.Subject {
			return nil, domain.ErrNotFound
		}
		return e, nil
	}
	if s.repo == nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	rec, err := s.repo.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("restore draft: %w", err)
	}
	if rec.OwnerID != sess.Subject {
		return nil, domain.ErrNotFound
	}
	restored := &draftEntry{
		id:        rec.ID,
		ownerID:   rec.OwnerID,
		store:     draft.NewStore(draft.FromSnapshot(rec.Snapshot)),
		gate:      submission.NewGate(s.shareBaseURL, s.logger),
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
		lastSeen:  s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.drafts[draftID]; ok {
		return live, nil
	}
	s.drafts[draftID] = restored
	return restored, nil
}

func (s *draftService) mutate(ctx context.Context, sess *domain.Session, draftID string, op func(draft.Draft) (draft.Draft, error)) (*domain.DraftView, error) {
	e, err := s.lookup(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, e, op)
}

// apply runs op on the live draft and autosaves the result. A draft that was
// already created upstream is closed for edits.
func (s *draftService) apply(ctx context.Context, e *draftEntry, op func(draft.Draft) (draft.Draft, error)) (*domain.DraftView, error) {
	if e.gate.State() == submission.Succeeded {
		return nil, submission.ErrAlreadySucceeded
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	d, err := e.store.Apply(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	s.mu.Lock()
	if now := s.now(); now.After(e.updatedAt) {
		e.updatedAt = now
	}
	e.lastSeen = e.updatedAt
	s.mu.Unlock()
	s.autosave(ctx, e, d)
	return s.view(e, d), nil
}

// autosave stores d when a repository is configured. Failures are logged; the live draft stays authoritative.
// Callers hold e.saveMu.
func (s *draftService) autosave(ctx context.Context, e *draftEntry, d draft.Draft) {
	if s.repo == nil {
		return
	}
	s.mu.Lock()
	rec := &domain.DraftRecord{
		ID:        e.id,
		OwnerID:   e.ownerID,
		Snapshot:  d.Snapshot(),
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	err := s.repo.Save(ctx, rec)
	if err != nil {
		s.logger.WarnContext(ctx, "draft autosave failed", "draft_id", e.id, "err", err)
	}
	s.mu.Lock()
	e.unsaved = err != nil
	s.mu.Unlock()
}

func (s *draftService) dropAutosave(ctx context.Context, draftID string) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.repo.Delete(ctx, draftID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to delete autosaved draft", "draft_id", draftID, "err", err)
	}
}

func (s *draftService) forget(ctx context.Context, e *draftEntry) {
	s.mu.Lock()
	delete(s.drafts, e.id)
	s.mu.Unlock()
	s.dropAutosave(ctx, e.id)
}

// sweepLocked evicts submitted drafts after succeededTTL and untouched drafts
// after idleTTL. Drafts in flight are kept, and so are drafts whose latest edit
// never reached the autosave store. Callers hold s.mu.
func (s *draftService) sweepLocked(ctx context.Context, now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, e := range s.drafts {
		var expired bool
		switch e.gate.State() {
		case submission.Submitting:
			continue
		case submission.Succeeded:
			if e.succeededAt.IsZero() {
				e.succeededAt = now
			}
			expired = now.Sub(e.succeededAt) >= s.succeededTTL
		default:
			expired = now.Sub(e.lastSeen) >= s.idleTTL && !(s.repo != nil && e.unsaved)
		}
		if expired {
			delete(s.drafts, id)
			s.logger.DebugContext(ctx, "draft evicted from memory", "draft_id", id)
		}
	}
}

// notifyPublished emails the share link to the session's user. Failures are only logged.
func (s *draftService) notifyPublished(ctx context.Context, sess *domain.Session, d draft.Draft, out submission.Outcome) {
	if s.emails == nil {
		return
	}
	addr, err := mail.ParseAddress(sess.Subject)
	if err != nil {
		s.logger.DebugContext(ctx, "session subject is not an email address, skipping publish email")
		return
	}
	err = s.emails.SendEventPublished(ctx, &domain.EventPublishedEmailData{
		Email:      addr.Address,
		EventTitle: d.Title,
		EventID:    out.EventID,
		ShareLink:  out.ShareLink,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to send event published email", "event_id", out.EventID, "err", err)
	}
}

func (s *draftService) view(e *draftEntry, d draft.Draft) *domain.DraftView {
	s.mu.Lock()
	createdAt, updatedAt := e.createdAt, e.updatedAt
	s.mu.Unlock()
	return &domain.DraftView{
		ID:                e.id,
		Draft:             d,
		DescriptionLength: d.DescriptionLength(),
		DescriptionLimit:  draft.DescriptionSoftLimit,
		Submission:        e.gate.Outcome(),
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}
