package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
	"infinitebz/internal/submission"
)

// WriteDomainError maps a service error to an HTTP status and error code.
// Unexpected errors are logged and reported as 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var perr *draft.PreconditionError
	switch {
	case errors.As(err, &perr):
		WriteJSONErrorDetails(w, http.StatusBadRequest, ErrCodeBadRequest, "draft is not ready to submit", perr.Problems)
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, submission.ErrInFlight), errors.Is(err, submission.ErrAlreadySucceeded):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		var um submission.UserMessager
		if errors.As(err, &um) {
			WriteJSONError(w, http.StatusBadGateway, ErrCodeUpstream, um.UserMessage())
			return
		}
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
