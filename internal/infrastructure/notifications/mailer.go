package notifications

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings. SendGrid is reached through its SMTP relay
// (host smtp.sendgrid.net, username "apikey", password the API key).
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends e-mail over SMTP. Without a host it only logs what it would send.
type Mailer struct {
	from   string
	dialer mailDialer
	logger *zap.Logger
}

// NewMailer creates a Mailer from cfg
func NewMailer(cfg MailConfig, logger *zap.Logger) *Mailer {
	m := &Mailer{from: cfg.From, logger: logger.Named("mailer")}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether messages leave the process
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Send delivers an HTML message with a plain-text alternative
func (m *Mailer) Send(to, subject, textBody, htmlBody string) error {
	if to == "" {
		return errors.New("no recipient specified")
	}

	if m.dialer == nil {
		m.logger.Info("smtp not configured, e-mail not sent",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	if htmlBody != "" {
		msg.SetBody("text/html", htmlBody)
		if textBody != "" {
			msg.AddAlternative("text/plain", textBody)
		}
	} else {
		msg.SetBody("text/plain", textBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send e-mail: %w", err)
	}
	return nil
}
