package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers emails through the SendGrid API
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
}

// NewSendGridSender creates a sender that delivers to the admin address
func NewSendGridSender(apiKey, fromAddress, fromName, adminAddress string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
		to:     mail.NewEmail("", adminAddress),
	}
}

// Send delivers the message, treating any non-2xx SendGrid response as an error
func (s *SendGridSender) Send(ctx context.Context, subject, plainText string) error {
	message := mail.NewSingleEmail(s.from, subject, s.to, plainText, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
