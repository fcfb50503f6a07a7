package http

import (
	"encoding/json"
	"net/http"

	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/pkg/authsdk"
	"github.com/mundocomputo/authd/pkg/httpx"
	"github.com/mundocomputo/authd/pkg/slogx"
)

// InvoiceHandler dispatches invoice mail for the sales module.
type InvoiceHandler struct {
	Invoices *service.InvoiceService
}

// HandleSend handles POST /v1/invoices/email
//
//	@Summary		Email an invoice
//	@Description	Renders the invoice as HTML and emails it to the client address.
//	@Tags			Invoices
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.InvoiceRequest	true	"Invoice payload"
//	@Success		200		{object}	authsdk.SuccessResponse	"Invoice mailed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid email or empty item list"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		502		{object}	authsdk.ErrorResponse	"Mail provider rejected the message"
//	@Failure		504		{object}	authsdk.ErrorResponse	"Mail provider timeout"
//	@Router			/v1/invoices/email [post].
func (h *InvoiceHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice data")
		return
	}

	inv := service.Invoice{
		ClientEmail:   req.ClientEmail,
		ClientName:    req.ClientName,
		InvoiceNumber: req.InvoiceNumber,
		Total:         req.Total,
		Date:          req.Date,
	}
	for _, it := range req.Items {
		inv.Items = append(inv.Items, service.InvoiceItem{
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal,
		})
	}

	if err := h.Invoices.SendInvoice(ctx, inv); err != nil {
		log.Warn("invoice mail failed", "invoice", req.InvoiceNumber, "err", err)
		writeServiceError(w, err)
		return
	}

	log.Info("invoice mailed", "invoice", req.InvoiceNumber, "to", req.ClientEmail)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
