package mocks

import (
	"context"
	"sync"

	"github.com/you/leadsvc/domain"
)

// MockBookingPublisher implements domain.BookingPublisher and records events
type MockBookingPublisher struct {
	PublishFunc func(ctx context.Context, event *domain.BookingEvent) error

	mu     sync.Mutex
	Events []*domain.BookingEvent
	Closed bool
}

// NewMockBookingPublisher creates a new MockBookingPublisher
func NewMockBookingPublisher() *MockBookingPublisher {
	return &MockBookingPublisher{}
}

// PublishBookingCreated records event unless PublishFunc is set
func (m *MockBookingPublisher) PublishBookingCreated(ctx context.Context, event *domain.BookingEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Close marks the publisher closed
func (m *MockBookingPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// MockAuditLogger implements domain.AuditLogger and records events
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// LogEvent records event
func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.EventType)
	}
	return out
}

// Compile-time interface compliance verification
var (
	_ domain.BookingPublisher = (*MockBookingPublisher)(nil)
	_ domain.AuditLogger      = (*MockAuditLogger)(nil)
)
