// Package jwtx verifies the HS256 session tokens minted by the primary
// authentication provider. This service never issues tokens; it only needs to
// establish which email a session belongs to.
package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the session-token claims this service consumes. The provider
// puts the account email in its own claim; fall back to the subject when it
// is absent.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// Identity returns the email the token is bound to.
func (c Claims) Identity() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

// Verifier checks session-token signatures and expiry against the shared
// HS256 secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: session secret is required")
	}
	return &Verifier{secret: secret}, nil
}

// Verify parses and validates a raw token, returning its claims.
func (v *Verifier) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Identity() == "" {
		return Claims{}, fmt.Errorf("%w: no identity claim", ErrInvalidToken)
	}
	return claims, nil
}

// PeekIdentity extracts the identity without verifying the signature. Only
// for client-side display of "which account is mid-verification"; the server
// re-verifies every token it accepts.
func PeekIdentity(raw string) (string, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Identity() == "" {
		return "", fmt.Errorf("%w: no identity claim", ErrInvalidToken)
	}
	return claims.Identity(), nil
}
