package service

import (
	"context"
	"fmt"

	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/pkg/guard"
)

// SessionInfo is the role/verification view of a profile that the client's
// session observer re-fetches after a successful verify. A nil Role with a
// present session is the "onboarding incomplete" signal the route guard
// depends on.
type SessionInfo struct {
	Email       string
	Role        *guard.Role
	MFAVerified bool
}

type SessionService struct {
	Store store.Store
}

// GetSession resolves the current role and verification state for an
// authenticated email.
func (s *SessionService) GetSession(ctx context.Context, email string) (SessionInfo, error) {
	if s.Store == nil {
		return SessionInfo{}, ErrNotConfigured
	}

	profile, err := s.Store.Profiles().GetProfileByEmail(ctx, email)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return SessionInfo{
		Email:       profile.Email,
		Role:        profile.Role,
		MFAVerified: profile.MFAVerified,
	}, nil
}
