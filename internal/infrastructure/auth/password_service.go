package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/leadsvc/domain"
)

// PasswordServiceImpl hashes account passwords with bcrypt at a fixed cost
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a bcrypt password service. A cost of zero uses bcrypt.DefaultCost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash returns the bcrypt hash of password. bcrypt only reads 72 bytes, so
// longer passwords are rejected with domain.ErrPasswordTooLong.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hashedPassword
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// NeedsRehash reports whether hashedPassword was made with a different cost
// than the one currently configured
func (p *PasswordServiceImpl) NeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	return err != nil || cost != p.cost
}
