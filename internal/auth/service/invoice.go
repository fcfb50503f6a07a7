package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/mundocomputo/authd/internal/auth/mail"
)

// ErrInvalidInvoice marks a malformed invoice mail request.
var ErrInvalidInvoice = errors.New("service: invalid invoice")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// InvoiceItem is one line of a sales invoice.
type InvoiceItem struct {
	Product  string
	Quantity int
	Price    float64
	Subtotal float64
}

// Invoice is the data rendered into the invoice mail.
type Invoice struct {
	ClientEmail   string
	ClientName    string
	InvoiceNumber string
	Items         []InvoiceItem
	Total         float64
	Date          string
}

// InvoiceService renders and dispatches invoice mail for the sales module.
// It shares the mailer and its bounded-timeout discipline with the code
// issuer.
type InvoiceService struct {
	Mailer mail.Mailer
	From   string
}

// SendInvoice validates the invoice, renders the HTML body and sends it.
// Field values reach the body only through html/template, so client-supplied
// names and products cannot inject markup.
func (s *InvoiceService) SendInvoice(ctx context.Context, inv Invoice) error {
	if s.Mailer == nil {
		return ErrNotConfigured
	}
	if !emailPattern.MatchString(inv.ClientEmail) {
		return fmt.Errorf("%w: invalid clientEmail", ErrInvalidInvoice)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: items must be a non-empty array", ErrInvalidInvoice)
	}

	var body strings.Builder
	if err := invoiceTemplate.Execute(&body, inv); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}

	if err := s.Mailer.Send(ctx, mail.Message{
		From:    s.From,
		To:      []string{inv.ClientEmail},
		Subject: fmt.Sprintf("Factura #%s", inv.InvoiceNumber),
		HTML:    body.String(),
	}); err != nil {
		return fmt.Errorf("failed to send invoice mail: %w", err)
	}
	return nil
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Factura</title>
  </head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0;">
      <h1 style="margin: 0; font-size: 28px;">Factura</h1>
      <p style="margin: 10px 0 0 0; opacity: 0.9;">Número: {{.InvoiceNumber}}</p>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
      <p>Estimado/a <strong>{{.ClientName}}</strong>,</p>
      <p>Gracias por su compra. Detalle de su factura del {{.Date}}:</p>
      <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <thead>
          <tr style="background: #eee;">
            <th style="padding: 10px; text-align: left;">Producto</th>
            <th style="padding: 10px; text-align: center;">Cantidad</th>
            <th style="padding: 10px; text-align: right;">Precio</th>
            <th style="padding: 10px; text-align: right;">Subtotal</th>
          </tr>
        </thead>
        <tbody>
          {{- range .Items}}
          <tr>
            <td style="padding: 10px; border-bottom: 1px solid #ddd;">{{.Product}}</td>
            <td style="padding: 10px; border-bottom: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 10px; border-bottom: 1px solid #ddd; text-align: right;">{{money .Price}}</td>
            <td style="padding: 10px; border-bottom: 1px solid #ddd; text-align: right;">{{money .Subtotal}}</td>
          </tr>
          {{- end}}
        </tbody>
      </table>
      <p style="text-align: right; font-size: 18px;"><strong>Total: {{money .Total}}</strong></p>
      <p style="color: #777; font-size: 12px;">Este es un correo automático, por favor no responda.</p>
    </div>
  </body>
</html>`))
