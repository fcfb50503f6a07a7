package http

import (
	"net/http"

	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/pkg/authsdk"
	"github.com/mundocomputo/authd/pkg/httpx"
	"github.com/mundocomputo/authd/pkg/slogx"
)

// SessionHandler reports the role and verification state bound to the
// caller's session.
type SessionHandler struct {
	Sessions *service.SessionService
}

// HandleGet handles GET /v1/session
//
//	@Summary		Resolve session role
//	@Description	Returns the role and second-factor state for the authenticated email. Role is null until
//	@Description	onboarding completes; clients treat that as "redirect to verification", never "logged out".
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionResponse	"email, role, mfa_verified"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"No profile for the session email"
//	@Failure		504	{object}	authsdk.ErrorResponse	"Upstream store timeout"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := httpx.EmailFromContext(ctx)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "Missing session identity")
		return
	}

	info, err := h.Sessions.GetSession(ctx, email)
	if err != nil {
		log.Warn("session resolve failed", "email", email, "err", err)
		writeServiceError(w, err)
		return
	}

	var role *string
	if info.Role != nil {
		s := info.Role.String()
		role = &s
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Email:       info.Email,
		Role:        role,
		MFAVerified: info.MFAVerified,
	})
}
