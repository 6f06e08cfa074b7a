package mocks

import (
	"context"
	"time"

	"github.com/you/leadsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, name, email, password string) (*domain.User, error)
	VerifyEmailFunc    func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendCodeFunc     func(ctx context.Context, email string) error
	SendCodeFunc       func(ctx context.Context, email string) error
	SigninFunc         func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	SignoutFunc        func(ctx context.Context, sessionID string) error
	GetProfileFunc     func(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfileFunc  func(ctx context.Context, userID, name string) (*domain.User, error)
	ChangePasswordFunc func(ctx context.Context, userID, currentPassword, newPassword string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockUser(id, name, email string, verified bool) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:         id,
		Name:       name,
		Email:      email,
		Role:       domain.RoleUser,
		IsVerified: verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Signup registers a new unverified user
func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return mockUser("user-1", name, email, false), nil
}

// VerifyEmail verifies the code and signs the user in
func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, email, code)
	}
	return &domain.AuthResult{
		User:      mockUser("user-1", "Test User", email, true),
		Token:     "token:user-1:user:sess-1",
		SessionID: "sess-1",
		ExpiresIn: int64((7 * 24 * time.Hour).Seconds()),
	}, nil
}

// ResendCode issues a fresh verification code
func (m *MockAuthService) ResendCode(ctx context.Context, email string) error {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(ctx, email)
	}
	return nil
}

// SendCode issues a verification code for an existing user
func (m *MockAuthService) SendCode(ctx context.Context, email string) error {
	if m.SendCodeFunc != nil {
		return m.SendCodeFunc(ctx, email)
	}
	return nil
}

// Signin authenticates a verified user
func (m *MockAuthService) Signin(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, email, password)
	}
	return &domain.AuthResult{
		User:      mockUser("user-1", "Test User", email, true),
		Token:     "token:user-1:user:sess-1",
		SessionID: "sess-1",
		ExpiresIn: int64((7 * 24 * time.Hour).Seconds()),
	}, nil
}

// Signout revokes a session
func (m *MockAuthService) Signout(ctx context.Context, sessionID string) error {
	if m.SignoutFunc != nil {
		return m.SignoutFunc(ctx, sessionID)
	}
	return nil
}

// GetProfile returns the user profile
func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return mockUser(userID, "Test User", "test@example.com", true), nil
}

// UpdateProfile changes the display name
func (m *MockAuthService) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, name)
	}
	return mockUser(userID, name, "test@example.com", true), nil
}

// ChangePassword replaces the password hash
func (m *MockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
