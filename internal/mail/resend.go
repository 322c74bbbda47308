package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v3"
)

// ResendSender delivers mail through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Resend sender; from is used when a message has no sender.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	from := msg.From
	if from == "" {
		from = s.from
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
		ReplyTo: msg.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		if isRejectedKey(err) {
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

// isRejectedKey matches the API's missing/invalid key responses.
func isRejectedKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key is invalid") || strings.Contains(msg, "missing api key")
}
