package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"spaces-community-backend/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender defines the interface for sending an email notification. It returns
// a message id for the invocation report.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPSender is a real implementation of Sender over an SMTP transport.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPSender creates a sender from mail configuration.
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send delivers the message. The context is honored before dialing; an SMTP
// exchange already in flight is not cancellable.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("X-Entity-Ref-ID", id)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return id, nil
}
