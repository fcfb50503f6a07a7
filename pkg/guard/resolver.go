package guard

// Identity is the minimal view of an authenticated user the guard needs.
type Identity struct {
	Email string
}

// Snapshot is what the external session/role observer reports for the
// current viewer at any point in time.
type Snapshot struct {
	Loading bool
	User    *Identity
	Role    *Role
}

// Resolve derives the guard state from an observer snapshot. "Authenticated
// but no role yet" is computed here from {session present, role absent}; it
// is never a stored flag, so it cannot go stale.
func Resolve(s Snapshot) State {
	switch {
	case s.Loading:
		return Loading()
	case s.User == nil:
		return Unauthenticated()
	case s.Role == nil:
		return PendingVerification()
	default:
		return Active(*s.Role)
	}
}
