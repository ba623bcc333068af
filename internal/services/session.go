package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"infinitebz/internal/domain"
)

// DefaultConfirmTTL bounds how long an upstream confirmation of an unverified token is trusted.
const DefaultConfirmTTL = 5 * time.Minute

// SessionServiceDeps groups the collaborators of the session service.
type SessionServiceDeps struct {
	Auth      domain.AuthClient
	Inspector domain.TokenInspector
	Timeout   time.Duration
	// ConfirmTTL applies only when Inspector does not verify signatures.
	ConfirmTTL time.Duration
}

type sessionService struct {
	auth           domain.AuthClient
	inspector      domain.TokenInspector
	contextTimeout time.Duration
	confirmTTL     time.Duration
	now            func() time.Time

	mu sync.Mutex
	// revoked maps invalidated tokens to their expiry; zero means no expiry.
	revoked map[string]time.Time
	// confirmed maps tokens the upstream API accepted to the end of that trust.
	confirmed map[string]time.Time
}

// NewSessionService returns a SessionService that logs in against the upstream
// auth client and reads tokens with the inspector. Tokens the inspector cannot
// verify are confirmed once with the upstream API before they are trusted.
func NewSessionService(deps SessionServiceDeps) domain.SessionService {
	confirmTTL := deps.ConfirmTTL
	if confirmTTL <= 0 {
		confirmTTL = DefaultConfirmTTL
	}
	return &sessionService{
		auth:           deps.Auth,
		inspector:      deps.Inspector,
		contextTimeout: deps.Timeout,
		confirmTTL:     confirmTTL,
		now:            time.Now,
		revoked:        make(map[string]time.Time),
		confirmed:      make(map[string]time.Time),
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	// Issued to us by the upstream API just now.
	return s.resume(ctx, token, true)
}

func (s *sessionService) Resume(ctx context.Context, token string) (*domain.Session, error) {
	return s.resume(ctx, token, false)
}

func (s *sessionService) resume(ctx context.Context, token string, issued bool) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}
	if s.isRevoked(token) {
		return nil, fmt.Errorf("session was invalidated: %w", domain.ErrUnauthorized)
	}
	subject, expiresAt, err := s.inspector.Inspect(token)
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{Token: token, Subject: subject, ExpiresAt: expiresAt}
	if sess.Expired(s.now()) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	if s.inspector.VerifiesSignature() {
		return sess, nil
	}
	if issued {
		s.markConfirmed(sess)
		return sess, nil
	}
	if err := s.confirm(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// confirm asks the upstream API whether it still honours sess, unless it did so recently.
func (s *sessionService) confirm(ctx context.Context, sess *domain.Session) error {
	if s.isConfirmed(sess.Token) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.auth.Me(ctx, sess)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.Invalidate(sess)
			return fmt.Errorf("token refused upstream: %w", err)
		}
		return fmt.Errorf("confirm token: %w", err)
	}
	if user == nil || (user.Email != "" && !strings.EqualFold(user.Email, sess.Subject)) {
		s.Invalidate(sess)
		return fmt.Errorf("token subject does not match its owner: %w", domain.ErrUnauthorized)
	}
	s.markConfirmed(sess)
	return nil
}

func (s *sessionService) markConfirmed(sess *domain.Session) {
	until := s.now().Add(s.confirmTTL)
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(until) {
		until = sess.ExpiresAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.confirmed[sess.Token] = until
}

func (s *sessionService) isConfirmed(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.confirmed[token]
	return ok && s.now().Before(until)
}

func (s *sessionService) Logout(sess *domain.Session) {
	s.Invalidate(sess)
}

func (s *sessionService) Invalidate(sess *domain.Session) {
	if sess == nil || sess.Token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.revoked[sess.Token] = sess.ExpiresAt
	delete(s.confirmed, sess.Token)
}

func (s *sessionService) Me(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.auth.Me(ctx, sess)
	if err != nil {
		return nil, invalidateOnUnauthorized(s, sess, err)
	}
	return user, nil
}

func (s *sessionService) isRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[token]
	return ok
}

// pruneLocked forgets revoked tokens that have expired on their own and lapsed confirmations.
func (s *sessionService) pruneLocked() {
	now := s.now()
	for token, exp := range s.revoked {
		if !exp.IsZero() && !now.Before(exp) {
			delete(s.revoked, token)
		}
	}
	for token, until := range s.confirmed {
		if !now.Before(until) {
			delete(s.confirmed, token)
		}
	}
}

// invalidateOnUnauthorized revokes sess when the upstream API refused it, and returns err unchanged.
func invalidateOnUnauthorized(sessions domain.SessionService, sess *domain.Session, err error) error {
	if err != nil && sessions != nil && errors.Is(err, domain.ErrUnauthorized) {
		sessions.Invalidate(sess)
	}
	return err
}
