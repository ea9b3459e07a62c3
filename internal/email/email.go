// Package email delivers outbound notifications. Production uses SendGrid;
// without credentials a console sender logs the message instead so the rest
// of the platform keeps working.
package email

import (
	"context"
)

// Sender delivers a notification email to the configured admin address
type Sender interface {
	Send(ctx context.Context, subject, plainText string) error
}
