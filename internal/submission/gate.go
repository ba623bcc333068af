// Package submission guards the single outbound create-event call made for a draft.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"infinitebz/internal/draft"
)

// State is a step of the submission lifecycle.
type State string

const (
	Idle       State = "idle"
	Submitting State = "submitting"
	Succeeded  State = "succeeded"
	Failed     State = "failed"
)

// DashboardView is the management view offered after a successful submit.
const DashboardView = "dashboard"

var (
	// ErrInFlight is returned when Submit is called while another submit is running.
	ErrInFlight = errors.New("submission already in progress")
	// ErrAlreadySucceeded is returned when the draft was already created upstream.
	ErrAlreadySucceeded = errors.New("event already created")
)

// SaveFunc sends the payload to the creation endpoint and returns the external id
// from the response. An empty id with a nil error means the response lacked one.
type SaveFunc func(ctx context.Context, payload draft.Payload) (externalID string, err error)

// UserMessager is implemented by errors that carry a message meant for the user.
type UserMessager interface {
	UserMessage() string
}

// Outcome describes the gate after a submit attempt.
type Outcome struct {
	State     State  `json:"state"`
	EventID   string `json:"event_id,omitempty"`
	ShareLink string `json:"share_link,omitempty"`
	NextView  string `json:"next_view,omitempty"`
	Message   string `json:"message,omitempty"`
	// Err is the save error behind a Failed outcome.
	Err error `json:"-"`
}

// Gate runs Idle → Submitting → Succeeded | Failed for one draft. A Failed gate
// accepts the next Submit; nothing is retried automatically.
type Gate struct {
	mu           sync.Mutex
	state        State
	eventID      string
	lastErr      error
	shareBaseURL string
	logger       *slog.Logger
}

// NewGate returns an Idle gate. shareBaseURL prefixes the shareable event link.
func NewGate(shareBaseURL string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		state:        Idle,
		shareBaseURL: strings.TrimSuffix(shareBaseURL, "/"),
		logger:       logger,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Outcome returns the current state with its success or failure details.
func (g *Gate) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcomeLocked()
}

// Submit assembles d and calls save exactly once. It returns an error only when
// the gate refuses to start (ErrInFlight, ErrAlreadySucceeded); a failed save is
// reported through the Failed outcome and leaves d untouched for a retry.
func (g *Gate) Submit(ctx context.Context, d draft.Draft, save SaveFunc) (Outcome, error) {
	g.mu.Lock()
	switch g.state {
	case Submitting:
		g.mu.Unlock()
		return Outcome{State: Submitting}, ErrInFlight
	case Succeeded:
		out := g.outcomeLocked()
		g.mu.Unlock()
		return out, ErrAlreadySucceeded
	}
	g.state = Submitting
	g.lastErr = nil
	g.mu.Unlock()

	payload := draft.Assemble(d)
	g.logger.InfoContext(ctx, "submitting event", "title", payload.Title)
	externalID, err := save(ctx, payload)

	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case err != nil:
		g.state = Failed
		g.lastErr = err
		g.logger.WarnContext(ctx, "event submission failed", "err", err)
	case externalID == "":
		// The response was ok but carried no id; no success is shown and the draft stays editable.
		g.state = Idle
		g.logger.WarnContext(ctx, "event submission returned no external id")
	default:
		g.state = Succeeded
		g.eventID = externalID
		g.logger.InfoContext(ctx, "event submitted", "event_id", externalID)
	}
	return g.outcomeLocked(), nil
}

// ShareLink returns the public link for an external event id.
func (g *Gate) ShareLink(externalID string) string {
	return g.shareBaseURL + "/events/" + url.PathEscape(externalID)
}

func (g *Gate) outcomeLocked() Outcome {
	out := Outcome{State: g.state}
	switch g.state {
	case Succeeded:
		out.EventID = g.eventID
		out.ShareLink = g.ShareLink(g.eventID)
		out.NextView = DashboardView
	case Failed:
		out.Err = g.lastErr
		out.Message = messageOf(g.lastErr)
	}
	return out
}

func messageOf(err error) string {
	var um UserMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
