// Package notification delivers transactional email to users. Delivery
// is best effort: callers fire it after commit and log failures instead
// of propagating them, so a mail outage never rolls back money movement.
package notification

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"rosepay/internal/config"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host string
	port string
	from string
	auth smtp.Auth
	log  *zap.SugaredLogger
}

// NewMailer builds an SMTP mailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD and SMTP_FROM. Auth is skipped when SMTP_USER is empty,
// which is the local mailhog setup.
func NewMailer(log *zap.SugaredLogger) Mailer {
	if log == nil {
		panic("notification: nil logger")
	}
	host := config.GetEnv("SMTP_HOST", "localhost")
	user := config.GetEnv("SMTP_USER", "")
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, config.GetEnv("SMTP_PASSWORD", ""), host)
	}
	return &smtpMailer{
		host: host,
		port: config.GetEnv("SMTP_PORT", "1025"),
		from: config.GetEnv("SMTP_FROM", "no-reply@rosepay.local"),
		auth: auth,
		log:  log,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.log.Debugw("mail sent", "to", to, "subject", subject)
	return nil
}

// NopMailer discards all mail. Used in tests and when SMTP is not
// configured.
type NopMailer struct{}

func (NopMailer) Send(string, string, string) error { return nil }
