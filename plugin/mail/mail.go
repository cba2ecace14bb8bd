// Package mail delivers notification emails over SMTP.
package mail

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Dispatcher sends a notification email to a single recipient. The body is
// HTML.
type Dispatcher interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPDispatcher sends mail through an SMTP server. Each Notify call dials a
// fresh connection; delivery volume is low enough that connection reuse is
// not worth the bookkeeping.
type SMTPDispatcher struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPDispatcher creates a dispatcher for the given SMTP server.
func NewSMTPDispatcher(config SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Notify sends a single HTML email.
func (d *SMTPDispatcher) Notify(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.config.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := d.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "failed to send mail to %s", recipient)
	}
	return nil
}

// LogDispatcher logs notifications instead of sending them. It stands in for
// SMTP in development mode and when no SMTP server is configured.
type LogDispatcher struct{}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Notify logs the notification and reports success.
func (d *LogDispatcher) Notify(_ context.Context, recipient, subject, _ string) error {
	slog.Info("mail notification suppressed, no SMTP configured", "recipient", recipient, "subject", subject)
	return nil
}
