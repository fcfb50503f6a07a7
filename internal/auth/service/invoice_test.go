package service

import (
	"context"
	"testing"

	"github.com/mundocomputo/authd/internal/auth/mail"
	"github.com/stretchr/testify/require"
)

func testInvoice() Invoice {
	return Invoice{
		ClientEmail:   "client@example.cl",
		ClientName:    "Cliente de Prueba",
		InvoiceNumber: "F-0042",
		Items: []InvoiceItem{
			{Product: "Disco SSD 1TB", Quantity: 2, Price: 45000, Subtotal: 90000},
			{Product: "Instalación", Quantity: 1, Price: 15000, Subtotal: 15000},
		},
		Total: 105000,
		Date:  "2026-09-01",
	}
}

func TestSendInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and mails the invoice", func(t *testing.T) {
		mailer := &capturingMailer{}
		svc := &InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}

		require.NoError(t, svc.SendInvoice(ctx, testInvoice()))
		require.Len(t, mailer.sent, 1)

		msg := mailer.sent[0]
		require.Equal(t, []string{"client@example.cl"}, msg.To)
		require.Equal(t, "Factura #F-0042", msg.Subject)
		require.Contains(t, msg.HTML, "Cliente de Prueba")
		require.Contains(t, msg.HTML, "Disco SSD 1TB")
		require.Contains(t, msg.HTML, "F-0042")
	})

	t.Run("client supplied fields cannot inject markup", func(t *testing.T) {
		mailer := &capturingMailer{}
		svc := &InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}

		inv := testInvoice()
		inv.ClientName = `<img src=x onerror=alert(1)>`
		inv.Items[0].Product = "<script>steal()</script>"

		require.NoError(t, svc.SendInvoice(ctx, inv))
		require.Len(t, mailer.sent, 1)
		require.NotContains(t, mailer.sent[0].HTML, "<script>")
		require.NotContains(t, mailer.sent[0].HTML, "<img src=x")
	})

	t.Run("invalid email is rejected before any send", func(t *testing.T) {
		mailer := &capturingMailer{}
		svc := &InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}

		for _, email := range []string{"", "no-at-sign", "a@b", "spa ce@x.cl"} {
			inv := testInvoice()
			inv.ClientEmail = email
			require.ErrorIs(t, svc.SendInvoice(ctx, inv), ErrInvalidInvoice, "email %q", email)
		}
		require.Empty(t, mailer.sent)
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		mailer := &capturingMailer{}
		svc := &InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}

		inv := testInvoice()
		inv.Items = nil
		require.ErrorIs(t, svc.SendInvoice(ctx, inv), ErrInvalidInvoice)
		require.Empty(t, mailer.sent)
	})

	t.Run("delivery failure surfaces the mail error", func(t *testing.T) {
		mailer := &capturingMailer{err: mail.ErrDelivery}
		svc := &InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}

		require.ErrorIs(t, svc.SendInvoice(ctx, testInvoice()), mail.ErrDelivery)
	})

	t.Run("missing mailer fails fast", func(t *testing.T) {
		svc := &InvoiceService{}
		require.ErrorIs(t, svc.SendInvoice(ctx, testInvoice()), ErrNotConfigured)
	})
}
