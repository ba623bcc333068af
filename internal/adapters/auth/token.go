package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"infinitebz/internal/domain"
)

type tokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier returns a TokenInspector that accepts only HS256 tokens
// signed with secret, the key the upstream API signs its access tokens with.
func NewTokenVerifier(secret string) domain.TokenInspector {
	return &tokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (v *tokenVerifier) Inspect(token string) (string, time.Time, error) {
	claims := jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: invalid token: %v", domain.ErrUnauthorized, err)
	}
	return subjectAndExpiry(claims)
}

func (v *tokenVerifier) VerifiesSignature() bool { return true }

type claimsInspector struct {
	parser *jwt.Parser
}

// NewClaimsInspector returns a TokenInspector that decodes the upstream JWT
// without its signing key. Sessions built on it confirm every new token with
// the upstream API before trusting its subject.
func NewClaimsInspector() domain.TokenInspector {
	return &claimsInspector{parser: jwt.NewParser()}
}

func (i *claimsInspector) Inspect(token string) (string, time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: malformed token: %v", domain.ErrUnauthorized, err)
	}
	return subjectAndExpiry(claims)
}

func (i *claimsInspector) VerifiesSignature() bool { return false }

func subjectAndExpiry(claims jwt.RegisteredClaims) (string, time.Time, error) {
	if claims.Subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, errors.New("token has no subject"))
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.Subject, expiresAt, nil
}
