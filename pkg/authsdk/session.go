package authsdk

import (
	"context"
	"fmt"

	"github.com/mundocomputo/authd/pkg/guard"
	"github.com/mundocomputo/authd/pkg/jwtx"
)

// Session is the client-side session/role observer. It wraps a primary-auth
// access token and tracks the role and verification state the service
// reports for it. Snapshot feeds the route guard.
type Session struct {
	client *SDKClient

	AccessToken string
	Email       string
	Role        *guard.Role
	MFAVerified bool

	resolved bool // false until the first Refresh completes
}

// NewSession builds a session observer from an access token. The email is
// read from the token without signature verification; it is only used to
// address code requests, and the server verifies the token on every call
// that matters.
func (c *SDKClient) NewSession(accessToken string) (*Session, error) {
	email, err := jwtx.PeekIdentity(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	return &Session{
		client:      c,
		AccessToken: accessToken,
		Email:       email,
	}, nil
}

// Refresh re-fetches the session's role and verification state. The
// verification page calls this after a successful verify so the guard sees
// the newly assigned role.
func (s *Session) Refresh(ctx context.Context) error {
	info, err := s.client.GetSession(ctx, s.AccessToken)
	if err != nil {
		return err
	}

	s.Email = info.Email
	s.MFAVerified = info.MFAVerified
	s.Role = nil
	if info.Role != nil {
		role, err := guard.ParseRole(*info.Role)
		if err != nil {
			return fmt.Errorf("server reported %w", err)
		}
		s.Role = &role
	}
	s.resolved = true
	return nil
}

// RequestCode asks the service to email a fresh code to this session's
// account. Also used by the resend action on the verification page.
func (s *Session) RequestCode(ctx context.Context) error {
	return s.client.SendCode(ctx, s.Email)
}

// SubmitCode is the verification-page flow: submit the code, and on success
// refresh the session so the role becomes visible to the guard.
func (s *Session) SubmitCode(ctx context.Context, code string) error {
	if err := s.client.VerifyCode(ctx, s.Email, code); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Snapshot reports the observer state for route guard evaluation.
func (s *Session) Snapshot() guard.Snapshot {
	if !s.resolved {
		return guard.Snapshot{Loading: true}
	}
	return guard.Snapshot{
		User: &guard.Identity{Email: s.Email},
		Role: s.Role,
	}
}
