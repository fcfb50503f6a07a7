package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html"
	"math/big"
	"strconv"
	"time"

	"github.com/mundocomputo/authd/internal/auth/mail"
	"github.com/mundocomputo/authd/internal/auth/store"
)

const (
	codeMin = 100000
	codeMax = 999999

	// DefaultCodeTTL is how long an issued code stays valid.
	DefaultCodeTTL = 10 * time.Minute
)

var (
	// ErrNotConfigured is returned when a service is missing a required
	// collaborator. Startup validation should make this unreachable; the
	// check keeps a miswired handler from producing a partial side effect.
	ErrNotConfigured = errors.New("service: not configured")

	ErrCodeExpired  = errors.New("service: code expired or not set")
	ErrCodeMismatch = errors.New("service: invalid code")
)

// IssuerService creates one-time verification codes and delivers them by
// email. The code is persisted before the mail is dispatched, so a delivery
// failure leaves a stored code the user never saw; the resend path reissues
// and overwrites it.
type IssuerService struct {
	Store   store.Store
	Mailer  mail.Mailer
	From    string        // sender address for verification mail
	CodeTTL time.Duration // zero means DefaultCodeTTL
}

// IssueCode generates a fresh 6-digit code, stores it with an absolute expiry
// against the profile matching email, and emails it. Exactly one store write
// and at most one outbound mail per call.
func (s *IssuerService) IssueCode(ctx context.Context, email string) error {
	if s.Store == nil || s.Mailer == nil {
		return ErrNotConfigured
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	expiresAt := time.Now().UTC().Add(ttl)

	if err := s.Store.Profiles().SetPendingCode(ctx, email, code, expiresAt); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.Mailer.Send(ctx, mail.Message{
		From:    s.From,
		To:      []string{email},
		Subject: "Código de verificación (MundoComputo)",
		HTML:    verificationBody(code, ttl),
	}); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}
	return nil
}

// generateCode picks a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}

// verificationBody interpolates the code into the mail body. The code is
// numeric by construction, but it is escaped anyway so the template can never
// become an injection point if generation changes.
func verificationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"<p>Tu código de verificación es: <strong>%s</strong></p><p>Caduca en %d minutos.</p>",
		html.EscapeString(code), int(ttl.Minutes()),
	)
}
