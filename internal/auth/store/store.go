package store

import (
	"context"
	"errors"
	"time"

	"github.com/mundocomputo/authd/internal/auth/domain"
	"github.com/mundocomputo/authd/pkg/guard"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrTimeout marks an outbound store call that exceeded its deadline.
	// Drivers wrap it so handlers can map to 504 without inspecting
	// driver-specific errors.
	ErrTimeout = errors.New("store: upstream timeout")
)

// Store is the root data access interface. Concrete drivers (rest for the
// managed PostgREST-style backend, sqlite for self-hosted deployments and
// tests) implement this. It exposes sub-repositories so further record types
// can be added without widening one interface.
type Store interface {
	Profiles() Profiles

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Profiles interface {
	// GetProfileByEmail returns the profile matching an email exactly.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	// CreateProfile inserts a new profile (id provided by the app via ULID).
	// In managed deployments onboarding happens upstream; the sqlite driver
	// and tests use this directly.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// SetPendingCode overwrites the MFA fields for the profile matching
	// email: stores the code and its absolute expiry and resets the
	// verified flag. A prior outstanding code is replaced; there is at most
	// one per profile.
	SetPendingCode(ctx context.Context, email, code string, expiresAt time.Time) error

	// CompleteVerification clears the code and expiry and sets the verified
	// flag, as a single update on the profile id.
	CompleteVerification(ctx context.Context, profileID string) error

	// SetRole assigns a role to a profile.
	SetRole(ctx context.Context, profileID string, role guard.Role) error
}
