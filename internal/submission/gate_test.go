package submission

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"infinitebz/internal/draft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type rejection struct{ message string }

func (r *rejection) Error() string       { return "upstream rejected: " + r.message }
func (r *rejection) UserMessage() string { return r.message }

func sampleDraft(t *testing.T) draft.Draft {
	t.Helper()
	d := draft.New("UTC")
	d, err := d.WithField(draft.FieldTitle, draft.Text("Go Chennai"))
	require.NoError(t, err)
	d, _ = d.AddAgendaItem()
	return d.AddTag("go")
}

func TestGate_StartsIdle(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)
	assert.Equal(t, Idle, g.State())
}

func TestGate_Success(t *testing.T) {
	g := NewGate("https://infinitebz.com/", testLogger)
	d := sampleDraft(t)

	calls := 0
	var sent draft.Payload
	out, err := g.Submit(context.Background(), d, func(_ context.Context, p draft.Payload) (string, error) {
		calls++
		sent = p
		return "chk-123", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, draft.Assemble(d), sent)
	assert.Equal(t, Succeeded, out.State)
	assert.Equal(t, "chk-123", out.EventID)
	assert.Equal(t, "https://infinitebz.com/events/chk-123", out.ShareLink)
	assert.Equal(t, DashboardView, out.NextView)
	assert.Equal(t, out, g.Outcome())
}

func TestGate_RejectionKeepsDraft(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)
	d := sampleDraft(t)
	before := d.Snapshot()

	out, err := g.Submit(context.Background(), d, func(context.Context, draft.Payload) (string, error) {
		return "", &rejection{message: "Duplicate title"}
	})

	require.NoError(t, err)
	assert.Equal(t, Failed, out.State)
	assert.Equal(t, "Duplicate title", out.Message)
	assert.Equal(t, before, d.Snapshot())
	assert.Empty(t, out.ShareLink)
}

func TestGate_TransportErrorMessage(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)

	out, err := g.Submit(context.Background(), sampleDraft(t), func(context.Context, draft.Payload) (string, error) {
		return "", errors.New("connection refused")
	})

	require.NoError(t, err)
	assert.Equal(t, Failed, out.State)
	assert.Equal(t, "connection refused", out.Message)
}

func TestGate_MissingExternalIDReturnsToIdle(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)

	out, err := g.Submit(context.Background(), sampleDraft(t), func(context.Context, draft.Payload) (string, error) {
		return "", nil
	})

	require.NoError(t, err)
	assert.Equal(t, Idle, out.State)
	assert.Empty(t, out.EventID)
	assert.Empty(t, out.ShareLink)
	assert.Empty(t, out.NextView)
}

func TestGate_RetryAfterFailure(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)
	d := sampleDraft(t)

	_, err := g.Submit(context.Background(), d, func(context.Context, draft.Payload) (string, error) {
		return "", errors.New("boom")
	})
	require.NoError(t, err)
	require.Equal(t, Failed, g.State())

	out, err := g.Submit(context.Background(), d, func(context.Context, draft.Payload) (string, error) {
		return "chk-9", nil
	})
	require.NoError(t, err)
	assert.Equal(t, Succeeded, out.State)
	assert.Empty(t, out.Message)
}

func TestGate_RefusesAfterSuccess(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)
	d := sampleDraft(t)
	save := func(context.Context, draft.Payload) (string, error) { return "chk-1", nil }

	_, err := g.Submit(context.Background(), d, save)
	require.NoError(t, err)

	out, err := g.Submit(context.Background(), d, save)
	require.ErrorIs(t, err, ErrAlreadySucceeded)
	assert.Equal(t, "chk-1", out.EventID)
}

func TestGate_RejectsConcurrentSubmit(t *testing.T) {
	g := NewGate("https://infinitebz.com", testLogger)
	d := sampleDraft(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	save := func(context.Context, draft.Payload) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-release
		return "chk-1", nil
	}

	done := make(chan Outcome)
	go func() {
		out, _ := g.Submit(context.Background(), d, save)
		done <- out
	}()
	<-entered

	assert.Equal(t, Submitting, g.State())
	_, err := g.Submit(context.Background(), d, save)
	require.ErrorIs(t, err, ErrInFlight)

	close(release)
	out := <-done
	assert.Equal(t, Succeeded, out.State)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}
