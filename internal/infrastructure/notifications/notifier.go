package notifications

import "github.com/you/leadsvc/domain"

// Notifier implements domain.NotificationService with SMTP e-mail and Twilio SMS
type Notifier struct {
	mail *Mailer
	sms  *TwilioSender
}

// NewNotifier combines a mailer and an SMS sender
func NewNotifier(mail *Mailer, sms *TwilioSender) *Notifier {
	return &Notifier{mail: mail, sms: sms}
}

// SendEmail implements domain.NotificationService. body is sent as HTML
// with a plain-text fallback derived from it.
func (n *Notifier) SendEmail(to, subject, body string) error {
	return n.mail.Send(to, subject, plainText(body), body)
}

// SendSMS implements domain.NotificationService
func (n *Notifier) SendSMS(to, message string) error {
	return n.sms.Send(to, message)
}

var _ domain.NotificationService = (*Notifier)(nil)
