package domain

import "errors"

// Sentinel errors shared by services and adapters. Controllers map them to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means the session is missing, expired, revoked, or was refused upstream.
	ErrUnauthorized = errors.New("unauthorized")
)
