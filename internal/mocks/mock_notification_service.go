package mocks

import (
	"sync"

	"github.com/you/leadsvc/domain"
)

// SentMessage records one outbound notification
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error

	mu     sync.Mutex
	Emails []SentMessage
	SMS    []SentMessage
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS records the message unless SendSMSFunc is set
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SMS = append(m.SMS, SentMessage{To: to, Body: message})
	return nil
}

// SendEmail records the message unless SendEmailFunc is set
func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// EmailCount returns how many e-mails were recorded
func (m *MockNotificationService) EmailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Emails)
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
