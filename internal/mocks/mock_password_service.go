package mocks

import (
	"strings"

	"github.com/you/leadsvc/domain"
)

const mockHashPrefix = "hashed_"

// MockPasswordService is a reversible stand-in for bcrypt: hashes are
// "hashed_" + password and the 72-byte bcrypt limit is enforced
type MockPasswordService struct {
	HashFunc        func(password string) (string, error)
	VerifyFunc      func(hashedPassword, password string) bool
	NeedsRehashFunc func(hashedPassword string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash returns "hashed_" + password unless HashFunc is set
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	if len(password) > 72 {
		return "", domain.ErrPasswordTooLong
	}
	return mockHashPrefix + password, nil
}

// Verify matches hashes produced by the default Hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == mockHashPrefix+password
}

// NeedsRehash reports true for hashes the default Hash would not produce
func (m *MockPasswordService) NeedsRehash(hashedPassword string) bool {
	if m.NeedsRehashFunc != nil {
		return m.NeedsRehashFunc(hashedPassword)
	}
	return !strings.HasPrefix(hashedPassword, mockHashPrefix)
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
