// Package mailx delivers the transactional emails of the auth service.
package mailx

import (
	"context"
	"log/slog"
)

// Message is a single outgoing email. HTML is required; Text is the plain
// alternative part and may be empty.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP server is configured, so links can be copied out of the logs
// during development.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "email not sent, no SMTP configured",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
