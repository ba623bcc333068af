package domain

import "context"

// User is the profile the upstream API returns for an authenticated session.
// swagger:model User
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// AuthClient talks to the upstream authentication endpoints.
type AuthClient interface {
	// Login exchanges credentials for an access token.
	Login(ctx context.Context, email, password string) (token string, err error)
	Me(ctx context.Context, sess *Session) (*User, error)
}
