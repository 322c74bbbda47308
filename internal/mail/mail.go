// Package mail delivers plain-text messages through an outbound provider.
package mail

import (
	"context"
	"errors"
)

var (
	// ErrAuthentication means the provider rejected the sender's credentials.
	ErrAuthentication = errors.New("mail: authentication failed")
	// ErrNoRecipient indicates a message without recipients.
	ErrNoRecipient = errors.New("mail: message must have at least one recipient")
)

// Message is a fully composed plain-text email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Sender hands a message to an outbound provider. Send blocks for the whole
// network exchange.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
