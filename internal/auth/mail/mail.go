// Package mail abstracts outbound email dispatch. The rest driver talks to a
// hosted transactional-mail API; the smtp driver delivers through a plain
// SMTP relay for self-hosted deployments.
package mail

import (
	"context"
	"errors"
)

var (
	// ErrDelivery marks a provider that answered but rejected the message.
	ErrDelivery = errors.New("mail: delivery failed")

	// ErrTimeout marks a provider call that exceeded its deadline.
	ErrTimeout = errors.New("mail: provider timeout")
)

// Message is a fully rendered outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer sends a single message. Implementations bound every outbound call
// and surface ErrTimeout rather than hanging.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
