package http

import (
	"encoding/json"
	"net/http"

	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/pkg/authsdk"
	"github.com/mundocomputo/authd/pkg/httpx"
	"github.com/mundocomputo/authd/pkg/slogx"
)

// TwoFAHandler handles the code issue and verify endpoints.
type TwoFAHandler struct {
	Issuer   *service.IssuerService
	Verifier *service.VerifierService
}

// HandleSend handles POST /v1/2fa/send
//
//	@Summary		Send verification code
//	@Description	Generates a fresh 6-digit code for the given email, stores it with a 10-minute expiry and emails it.
//	@Description	Calling again before the previous code expires replaces it; only the newest code verifies.
//	@Tags			2FA
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SendCodeRequest	true	"Target email"
//	@Success		200		{object}	authsdk.SuccessResponse	"Code stored and mailed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Missing email"
//	@Failure		502		{object}	authsdk.ErrorResponse	"Mail provider rejected the message"
//	@Failure		504		{object}	authsdk.ErrorResponse	"Upstream store or mail timeout"
//	@Router			/v1/2fa/send [post].
func (h *TwoFAHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing email")
		return
	}

	if err := h.Issuer.IssueCode(ctx, req.Email); err != nil {
		log.Warn("code issue failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	log.Info("verification code issued", "email", req.Email)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}

// HandleVerify handles POST /v1/2fa/verify
//
//	@Summary		Verify a code
//	@Description	Checks the submitted code against the outstanding one for the email. On success the code is
//	@Description	cleared and the profile marked verified; a code verifies at most once.
//	@Tags			2FA
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyCodeRequest	true	"Email and code"
//	@Success		200		{object}	authsdk.SuccessResponse		"Code accepted"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Missing parameters, expired or wrong code"
//	@Failure		404		{object}	authsdk.ErrorResponse		"No profile for that email"
//	@Failure		504		{object}	authsdk.ErrorResponse		"Upstream store timeout"
//	@Router			/v1/2fa/verify [post].
func (h *TwoFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	if err := h.Verifier.VerifyCode(ctx, req.Email, req.Code); err != nil {
		log.Warn("code verify failed", "email", req.Email, "err", err)
		writeServiceError(w, err)
		return
	}

	log.Info("second factor verified", "email", req.Email)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
