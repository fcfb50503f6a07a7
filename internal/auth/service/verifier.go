package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mundocomputo/authd/internal/auth/store"
)

// VerifierService checks a submitted code against the stored one and
// completes the second factor on a match.
type VerifierService struct {
	Store store.Store
}

// VerifyCode validates code for the profile matching email. On success the
// stored code is cleared and the verified flag set in a single update, so the
// same code can never be accepted twice.
//
// Error mapping: store.ErrNotFound when no profile matches, ErrCodeExpired
// when no code is outstanding or the current time is strictly after its
// expiry, ErrCodeMismatch when the strings differ.
func (s *VerifierService) VerifyCode(ctx context.Context, email, code string) error {
	if s.Store == nil {
		return ErrNotConfigured
	}

	profile, err := s.Store.Profiles().GetProfileByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	// Both sides treat expiry as the absolute instant computed at issuance;
	// comparing instants avoids clock-skew ambiguity between issue and
	// verify.
	if !profile.HasPendingCode() || time.Now().After(*profile.MFAExpiresAt) {
		return ErrCodeExpired
	}

	if *profile.MFACode != code {
		return ErrCodeMismatch
	}

	if err := s.Store.Profiles().CompleteVerification(ctx, profile.ID); err != nil {
		return fmt.Errorf("failed to complete verification: %w", err)
	}
	return nil
}
