package mocks

import (
	"context"
	"time"

	"github.com/you/leadsvc/domain"
)

// MockVerificationService implements domain.VerificationService interface for testing
type MockVerificationService struct {
	IssueFunc     func(ctx context.Context, email string) (*domain.VerificationCode, error)
	VerifyFunc    func(ctx context.Context, email, code string) (*domain.User, error)
	ResendFunc    func(ctx context.Context, email string) (*domain.VerificationCode, error)
	CanResendFunc func(ctx context.Context, email string) (bool, int64, error)
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

func mockCode(email string) *domain.VerificationCode {
	return &domain.VerificationCode{Email: email, Code: "123456", ExpiresAt: time.Now().Add(10 * time.Minute)}
}

// Issue returns code 123456 unless IssueFunc is set
func (m *MockVerificationService) Issue(ctx context.Context, email string) (*domain.VerificationCode, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email)
	}
	return mockCode(email), nil
}

// Verify accepts code 123456 unless VerifyFunc is set
func (m *MockVerificationService) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code)
	}
	if code != "123456" {
		return nil, domain.ErrCodeInvalid
	}
	return mockUser("user-1", "Test User", email, true), nil
}

// Resend returns code 123456 unless ResendFunc is set
func (m *MockVerificationService) Resend(ctx context.Context, email string) (*domain.VerificationCode, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, email)
	}
	return mockCode(email), nil
}

// CanResend always allows a resend unless CanResendFunc is set
func (m *MockVerificationService) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, email)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.VerificationService = (*MockVerificationService)(nil)
