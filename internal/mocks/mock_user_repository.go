package mocks

import (
	"context"
	"time"

	"github.com/you/leadsvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc              func(ctx context.Context, user *domain.User) error
	FindByEmailFunc         func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc            func(ctx context.Context, id string) (*domain.User, error)
	UpdateFunc              func(ctx context.Context, user *domain.User) error
	DeleteFunc              func(ctx context.Context, id string) error
	SetVerificationCodeFunc func(ctx context.Context, id, code string, expiresAt time.Time) error
	MarkVerifiedFunc        func(ctx context.Context, id string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// SetVerificationCode stores a verification code on the user
func (m *MockUserRepository) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	if m.SetVerificationCodeFunc != nil {
		return m.SetVerificationCodeFunc(ctx, id, code, expiresAt)
	}
	return nil
}

// MarkVerified flags the user as verified
func (m *MockUserRepository) MarkVerified(ctx context.Context, id string) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
