package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/blogsite/internal/mail"
)

const contactSubject = "New Message"

// ContactInput carries a validated contact form.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactService forwards contact form submissions to the site's mailbox.
type ContactService struct {
	sender  mail.Sender
	mailbox string
}

// NewContactService creates a ContactService delivering to mailbox.
func NewContactService(sender mail.Sender, mailbox string) *ContactService {
	return &ContactService{sender: sender, mailbox: mailbox}
}

// Send composes the plain-text message and hands it to the mail sender.
// Errors from the sender are returned unchanged.
func (s *ContactService) Send(ctx context.Context, input ContactInput) error {
	return s.sender.Send(ctx, mail.Message{
		From:    s.mailbox,
		To:      []string{s.mailbox},
		ReplyTo: strings.TrimSpace(input.Email),
		Subject: contactSubject,
		Body:    composeContactBody(input),
	})
}

func composeContactBody(input ContactInput) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s",
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Email),
		strings.TrimSpace(input.Phone),
		input.Message,
	)
}
