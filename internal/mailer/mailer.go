// Package mailer delivers e-mails over SMTP
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/mail.v2"
)

// sender delivers composed messages
type sender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPMailer sends HTML e-mails through an SMTP server
type SMTPMailer struct {
	dialer sender
	from   string
}

// NewSMTPMailer creates a mailer for the given SMTP server and sender address
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one HTML e-mail
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := newMessage(m.from, to, subject, body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func newMessage(from, to, subject, body string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return msg
}
