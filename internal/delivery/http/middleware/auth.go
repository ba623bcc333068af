package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "infinitebz/internal/delivery/http/helpers"
	"infinitebz/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// SetSession returns a context carrying sess. Used by auth middleware.
func SetSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the authenticated session from the context, if present.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*domain.Session)
	return sess, ok && sess != nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

// RequireAuth returns a wrapper that resumes the session of the Bearer token and puts it in the request context.
// If the token is missing, forged, expired or invalidated, it responds with 401 and does not call next.
// A failure to reach the upstream API while confirming the token is reported as such, not as a 401.
func RequireAuth(sessions domain.SessionService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			token, ok := BearerToken(r)
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			sess, err := sessions.Resume(r.Context(), token)
			if errors.Is(err, domain.ErrUnauthorized) {
				logger.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if err != nil {
				h.WriteDomainError(w, r, logger, err)
				return
			}
			next(w, r.WithContext(SetSession(r.Context(), sess)))
		}
	}
}
