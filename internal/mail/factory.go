package mail

import (
	"fmt"
	"log/slog"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/storage"
)

// NewSender builds the Sender selected by cfg.Driver.
func NewSender(cfg config.Mail, log *slog.Logger) (Sender, error) {
	switch cfg.Driver {
	case config.MailSMTP:
		if cfg.SMTPPassword == "" {
			log.Warn("email password not configured, outbound mail disabled")
			return DisabledSender{}, nil
		}
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Username: cfg.Sender,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SMTPTimeout,
		}), nil
	case config.MailPostmark:
		return NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	case config.MailFile:
		return NewFileSender(storage.NewLocalStorage(cfg.OutboxDir)), nil
	case config.MailNone:
		return DisabledSender{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mail driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}
