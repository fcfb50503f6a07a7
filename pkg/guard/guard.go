// Package guard implements the authorization decision consulted on every
// protected page render. Evaluation is pure and synchronous; the caller feeds
// it the session state reported by its observer and acts on the decision.
package guard

import (
	"fmt"
	"slices"
)

// Decision is the outcome of evaluating a protected route.
type Decision int

const (
	// ShowLoading renders a placeholder while the session is still being
	// resolved; no redirect happens.
	ShowLoading Decision = iota

	// Render shows the protected content.
	Render

	// RedirectLogin sends the visitor to the login page.
	RedirectLogin

	// RedirectVerify sends an authenticated-but-roleless user to the
	// second-factor verification page.
	RedirectVerify

	// RedirectUnauthorized sends a role-holding user without access to the
	// unauthorized page.
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "show_loading"
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectVerify:
		return "redirect_verify"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

type phase int

const (
	phaseLoading phase = iota
	phaseUnauthenticated
	phasePendingVerification
	phaseActive
)

// State is the viewer's session state as a tagged value. Construct it with
// Loading, Unauthenticated, PendingVerification or Active; the zero value is
// Loading.
type State struct {
	phase phase
	role  Role
}

// Loading means the observer has not resolved the session yet.
func Loading() State { return State{phase: phaseLoading} }

// Unauthenticated means there is no session at all.
func Unauthenticated() State { return State{phase: phaseUnauthenticated} }

// PendingVerification means a session exists but no role has been assigned:
// the viewer is mid second-factor and must not be confused with an
// unauthenticated visitor.
func PendingVerification() State { return State{phase: phasePendingVerification} }

// Active means the session holds the given role.
func Active(role Role) State { return State{phase: phaseActive, role: role} }

// Role returns the active role and whether one is present.
func (s State) Role() (Role, bool) {
	return s.role, s.phase == phaseActive
}

// Evaluate maps a session state and a route's allowed roles to exactly one
// decision. Every state has exactly one row; there is no default fallthrough.
func Evaluate(s State, allowed ...Role) Decision {
	switch s.phase {
	case phaseLoading:
		return ShowLoading
	case phaseUnauthenticated:
		return RedirectLogin
	case phasePendingVerification:
		// Not RedirectLogin: a generic "no user" rule here would bounce a
		// mid-verification user between login and the 2FA page forever.
		return RedirectVerify
	case phaseActive:
		if slices.Contains(allowed, s.role) {
			return Render
		}
		return RedirectUnauthorized
	}
	panic(fmt.Sprintf("guard: invalid state %d", s.phase))
}
