package client

import (
	"fmt"

	"storefront/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail-transport capability.
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewMailer builds an SMTP mailer. Without SMTP credentials it degrades to a
// log-only transport so local development works without a mail server.
func NewMailer(cfg *config.SMTP, logger zerolog.Logger) Mailer {
	if cfg.Host == "" || cfg.User == "" {
		logger.Warn().Msg("smtp not configured, mail delivery disabled")
		return &smtpMailer{from: cfg.From, logger: logger}
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *smtpMailer) Send(to, subject, textBody, htmlBody string) error {
	if m.dialer == nil {
		m.logger.Info().Str("to", to).Str("subject", subject).Msg("mail delivery disabled, dropping message")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
