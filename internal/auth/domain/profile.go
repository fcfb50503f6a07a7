package domain

import (
	"time"

	"github.com/mundocomputo/authd/pkg/guard"
)

// Profile is the per-user record combining identity, role and second-factor
// state. The authoritative copy lives in the external profile store; this
// service only reads and writes the MFA slice of it.
type Profile struct {
	ID           string
	Email        string     // unique, case-sensitive as stored
	Role         *guard.Role // nil until onboarding/verification completes
	MFACode      *string    // outstanding one-time code, nil when none
	MFAExpiresAt *time.Time // absolute expiry of MFACode, nil iff MFACode is nil
	MFAVerified  bool       // whether the current session passed the second factor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingCode reports whether a code and its expiry are both present.
// MFACode and MFAExpiresAt are set and cleared together; one without the
// other means the record is corrupt and is treated as "no code".
func (p Profile) HasPendingCode() bool {
	return p.MFACode != nil && p.MFAExpiresAt != nil
}
