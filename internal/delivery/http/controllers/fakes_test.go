package controllers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"infinitebz/internal/delivery/http/middleware"
	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
	"infinitebz/internal/submission"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testSession = &domain.Session{Token: "tok-ada", Subject: "ada@example.com"}

func withSession(ctx context.Context) context.Context {
	return middleware.SetSession(ctx, testSession)
}

// fakeDraftService implements domain.DraftService for handler tests.
type fakeDraftService struct {
	err     error
	view    *domain.DraftView
	itemID  draft.ItemID
	outcome submission.Outcome
	payload draft.Payload
	list    []*domain.DraftSummary
	total   int

	lastSession    *domain.Session
	lastDraftID    string
	lastTimezone   string
	lastField      draft.Field
	lastValue      draft.Value
	lastMode       draft.Mode
	lastItemID     draft.ItemID
	lastItemField  string
	lastItemValue  string
	lastTag        string
	lastParams     domain.PaginationParams
	lastFilename   string
	lastUpload     string
	lastSessionize string
}

func newFakeDraftService() *fakeDraftService {
	return &fakeDraftService{view: &domain.DraftView{ID: "draft-1", Draft: draft.New("UTC"), CreatedAt: time.Unix(0, 0)}}
}

func (f *fakeDraftService) result(sess *domain.Session, draftID string) (*domain.DraftView, error) {
	f.lastSession, f.lastDraftID = sess, draftID
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeDraftService) Create(ctx context.Context, sess *domain.Session, timezone string) (*domain.DraftView, error) {
	f.lastTimezone = timezone
	return f.result(sess, "")
}

func (f *fakeDraftService) Get(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, error) {
	return f.result(sess, draftID)
}

func (f *fakeDraftService) List(ctx context.Context, sess *domain.Session, params domain.PaginationParams) ([]*domain.DraftSummary, int, error) {
	f.lastSession, f.lastParams = sess, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.list, f.total, nil
}

func (f *fakeDraftService) Discard(ctx context.Context, sess *domain.Session, draftID string) error {
	_, err := f.result(sess, draftID)
	return err
}

func (f *fakeDraftService) SetField(ctx context.Context, sess *domain.Session, draftID string, field draft.Field, value draft.Value) (*domain.DraftView, error) {
	f.lastField, f.lastValue = field, value
	return f.result(sess, draftID)
}

func (f *fakeDraftService) SetMode(ctx context.Context, sess *domain.Session, draftID string, mode draft.Mode) (*domain.DraftView, error) {
	f.lastMode = mode
	return f.result(sess, draftID)
}

func (f *fakeDraftService) AddAgendaItem(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, draft.ItemID, error) {
	v, err := f.result(sess, draftID)
	return v, f.itemID, err
}

func (f *fakeDraftService) UpdateAgendaItem(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID, field draft.AgendaField, value string) (*domain.DraftView, error) {
	f.lastItemID, f.lastItemField, f.lastItemValue = itemID, string(field), value
	return f.result(sess, draftID)
}

func (f *fakeDraftService) RemoveAgendaItem(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID) (*domain.DraftView, error) {
	f.lastItemID = itemID
	return f.result(sess, draftID)
}

func (f *fakeDraftService) AddSpeaker(ctx context.Context, sess *domain.Session, draftID string) (*domain.DraftView, draft.ItemID, error) {
	v, err := f.result(sess, draftID)
	return v, f.itemID, err
}

func (f *fakeDraftService) UpdateSpeaker(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID, field draft.SpeakerField, value string) (*domain.DraftView, error) {
	f.lastItemID, f.lastItemField, f.lastItemValue = itemID, string(field), value
	return f.result(sess, draftID)
}

func (f *fakeDraftService) RemoveSpeaker(ctx context.Context, sess *domain.Session, draftID string, itemID draft.ItemID) (*domain.DraftView, error) {
	f.lastItemID = itemID
	return f.result(sess, draftID)
}

func (f *fakeDraftService) AddTag(ctx context.Context, sess *domain.Session, draftID, raw string) (*domain.DraftView, error) {
	f.lastTag = raw
	return f.result(sess, draftID)
}

func (f *fakeDraftService) RemoveTag(ctx context.Context, sess *domain.Session, draftID, tag string) (*domain.DraftView, error) {
	f.lastTag = tag
	return f.result(sess, draftID)
}

func (f *fakeDraftService) Payload(ctx context.Context, sess *domain.Session, draftID string) (draft.Payload, error) {
	f.lastSession, f.lastDraftID = sess, draftID
	return f.payload, f.err
}

func (f *fakeDraftService) UploadImage(ctx context.Context, sess *domain.Session, draftID, filename string, r io.Reader) (*domain.DraftView, error) {
	b, _ := io.ReadAll(r)
	f.lastFilename, f.lastUpload = filename, string(b)
	return f.result(sess, draftID)
}

func (f *fakeDraftService) ImportSessionize(ctx context.Context, sess *domain.Session, draftID, sessionizeID string) (*domain.DraftView, error) {
	f.lastSessionize = sessionizeID
	return f.result(sess, draftID)
}

func (f *fakeDraftService) Submit(ctx context.Context, sess *domain.Session, draftID string) (submission.Outcome, error) {
	f.lastSession, f.lastDraftID = sess, draftID
	return f.outcome, f.err
}

// fakeSessionService implements domain.SessionService for handler tests.
type fakeSessionService struct {
	loginSession *domain.Session
	loginErr     error
	user         *domain.User
	meErr        error
	loggedOut    []*domain.Session
	lastEmail    string
	lastPassword string
}

func (f *fakeSessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.loginSession, f.loginErr
}

func (f *fakeSessionService) Resume(ctx context.Context, token string) (*domain.Session, error) {
	return &domain.Session{Token: token, Subject: "ada@example.com"}, nil
}

func (f *fakeSessionService) Logout(sess *domain.Session) { f.loggedOut = append(f.loggedOut, sess) }

func (f *fakeSessionService) Invalidate(sess *domain.Session) {}

func (f *fakeSessionService) Me(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	return f.user, f.meErr
}
