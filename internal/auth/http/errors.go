package http

import (
	"errors"
	"net/http"

	"github.com/mundocomputo/authd/internal/auth/mail"
	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/pkg/authsdk"
	"github.com/mundocomputo/authd/pkg/httpx"
)

func writeError(w http.ResponseWriter, status int, msg string) {
	httpx.WriteJSON(w, status, authsdk.ErrorResponse{Error: msg})
}

// writeServiceError translates sentinel errors from the service layer into
// the status codes and bodies the clients key off. Timeouts are checked
// first: a slow upstream must surface as 504, not as whatever operation the
// deadline happened to interrupt.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrTimeout), errors.Is(err, mail.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "External service timeout")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, service.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "Code expired or not set")
	case errors.Is(err, service.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, "Invalid code")
	case errors.Is(err, service.ErrInvalidInvoice):
		writeError(w, http.StatusBadRequest, "Invalid invoice data")
	case errors.Is(err, mail.ErrDelivery):
		writeError(w, http.StatusBadGateway, "Failed to send email")
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Server configuration error")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
