package domain

import (
	"context"
	"time"
)

// Session is an authenticated caller of the upstream API. It is created on login
// (or resumed from a bearer token) and passed explicitly to every call that
// reaches the network.
type Session struct {
	Token   string
	Subject string
	// ExpiresAt is zero when the token carries no expiry.
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TokenInspector reads the subject and expiry of an access token.
// VerifiesSignature reports whether Inspect rejects tokens not signed by the
// upstream API; when it does not, sessions confirm each new token upstream.
type TokenInspector interface {
	Inspect(token string) (subject string, expiresAt time.Time, err error)
	VerifiesSignature() bool
}

// SessionService creates, resumes and invalidates sessions.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	// Resume rebuilds a session from a bearer token. Forged, expired or invalidated tokens yield ErrUnauthorized.
	Resume(ctx context.Context, token string) (*Session, error)
	Logout(sess *Session)
	// Invalidate revokes the session after the upstream API refused it.
	Invalidate(sess *Session)
	Me(ctx context.Context, sess *Session) (*User, error)
}
