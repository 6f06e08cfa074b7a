package mocks

import (
	"context"
	"sync"

	"github.com/you/leadsvc/domain"
)

// MockSessionRepository is an in-memory domain.SessionRepository. Set a Func
// field to override one method; otherwise sessions are kept in a map.
type MockSessionRepository struct {
	CreateFunc       func(ctx context.Context, session *domain.Session) error
	FindByIDFunc     func(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteFunc       func(ctx context.Context, sessionID string) error
	DeleteByUserFunc func(ctx context.Context, userID, keepSessionID string) (int, error)

	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMockSessionRepository creates an empty MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: map[string]domain.Session{}}
}

// Create stores a copy of session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

// FindByID returns a stored session or domain.ErrSessionNotFound
func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// Delete removes a session
func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// DeleteByUser removes the user's sessions other than keepSessionID
func (m *MockSessionRepository) DeleteByUser(ctx context.Context, userID, keepSessionID string) (int, error) {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID, keepSessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UserID == userID && id != keepSessionID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
