package email

import (
	"context"
	"log/slog"
)

// ConsoleSender writes emails to the log instead of delivering them. Used in
// demo mode and local development where no SendGrid key is configured.
type ConsoleSender struct {
	logger *slog.Logger
}

// NewConsoleSender creates a console sender
func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSender{logger: logger}
}

// Send logs the message at info level
func (s *ConsoleSender) Send(ctx context.Context, subject, plainText string) error {
	s.logger.Info("email (console delivery)",
		"subject", subject,
		"body", plainText,
	)
	return nil
}
