// Package mail sends transactional email for account flows. Failures are
// logged and surfaced to the caller, never retried.
package mail

import (
	"context"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/oakwellhq/webstarter/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Handlers depend on this interface so tests can
// record sends instead of dialing SMTP.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over SMTP.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the configured SMTP server and delivers one message. The
// context is accepted for interface symmetry; the underlying dialer does
// not support cancellation.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("mail: send to %s failed: %v", msg.To, err)
		return err
	}
	return nil
}
