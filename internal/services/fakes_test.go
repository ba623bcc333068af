package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeAuthClient implements domain.AuthClient for tests.
type fakeAuthClient struct {
	password string
	token    string
	user     *domain.User
	meErr    error
	logins   int
	meCalls  int
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) (string, error) {
	f.logins++
	if password != f.password {
		return "", fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
	}
	return f.token, nil
}

func (f *fakeAuthClient) Me(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

// fakeInspector treats the token as "<subject>|<unix expiry>"; an empty expiry means none.
type fakeInspector struct {
	unverified bool
}

func (f fakeInspector) VerifiesSignature() bool { return !f.unverified }

func (fakeInspector) Inspect(token string) (string, time.Time, error) {
	subject, exp, _ := strings.Cut(token, "|")
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("no subject: %w", domain.ErrUnauthorized)
	}
	if exp == "" {
		return subject, time.Time{}, nil
	}
	sec, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("bad expiry: %w", domain.ErrUnauthorized)
	}
	return subject, time.Unix(sec, 0), nil
}

// fakeSessions records invalidated sessions.
type fakeSessions struct {
	domain.SessionService
	mu          sync.Mutex
	invalidated []string
}

func (f *fakeSessions) Invalidate(sess *domain.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, sess.Token)
}

// fakeEventCreator implements domain.EventCreator for tests.
type fakeEventCreator struct {
	mu        sync.Mutex
	calls     int
	payloads  []draft.Payload
	created   *domain.CreatedEvent
	err       error
	uploadURL string
	uploadErr error
	// block, when set, holds CreateEvent until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeEventCreator) CreateEvent(ctx context.Context, sess *domain.Session, payload draft.Payload) (*domain.CreatedEvent, error) {
	f.mu.Lock()
	f.calls++
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.created == nil {
		return &domain.CreatedEvent{}, nil
	}
	return f.created, nil
}

func (f *fakeEventCreator) UploadImage(ctx context.Context, sess *domain.Session, filename string, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return f.uploadURL, nil
}

func (f *fakeEventCreator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeDraftRepo is an in-memory DraftRepository for tests.
type fakeDraftRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.DraftRecord
	saveErr error
	saves   int
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{byID: make(map[string]*domain.DraftRecord)}
}

func (f *fakeDraftRepo) Save(ctx context.Context, rec *domain.DraftRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if cur, ok := f.byID[rec.ID]; ok {
		if cur.OwnerID != rec.OwnerID {
			return domain.ErrForbidden
		}
		if cur.UpdatedAt.After(rec.UpdatedAt) {
			return nil
		}
	}
	cp := *rec
	f.byID[rec.ID] = &cp
	return nil
}

func (f *fakeDraftRepo) get(id string) *domain.DraftRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeDraftRepo) GetByID(ctx context.Context, id string) (*domain.DraftRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.byID[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDraftRepo) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.DraftRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*domain.DraftRecord
	for _, rec := range f.byID {
		if rec.OwnerID == ownerID {
			all = append(all, rec)
		}
	}
	start, end := params.Window(len(all))
	return all[start:end], len(all), nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeDraftRepo) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok
}

// fakeSessionize returns a fixed schedule.
type fakeSessionize struct {
	schedule domain.SessionizeSchedule
	err      error
	gotID    string
}

func (f *fakeSessionize) Fetch(ctx context.Context, sessionizeID string) (domain.SessionizeSchedule, error) {
	f.gotID = sessionizeID
	return f.schedule, f.err
}

// fakeEmailService records published-event emails.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.EventPublishedEmailData
	err  error
}

func (f *fakeEmailService) SendEventPublished(ctx context.Context, data *domain.EventPublishedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

// fakeMailer records sent messages.
type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

// fakeRenderer renders a fixed message.
type fakeRenderer struct {
	gotName string
	err     error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.gotName = name
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}

var errBoom = errors.New("boom")

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
