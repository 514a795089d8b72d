package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig describes an authenticated STARTTLS relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPSender sends through an SMTP relay using STARTTLS and PLAIN auth.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender returns a sender for cfg. The connection is opened per message.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Password == "" {
		return ErrNotConfigured
	}
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	return nil
}

// buildMsg renders msg into a go-mail message.
func buildMsg(msg Message) (*gomail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, errors.Join(ErrInvalidMessage, fmt.Errorf("from: %w", err))
	}
	if err := m.To(msg.To); err != nil {
		return nil, errors.Join(ErrInvalidMessage, fmt.Errorf("to: %w", err))
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, errors.Join(ErrInvalidMessage, fmt.Errorf("reply-to: %w", err))
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}
