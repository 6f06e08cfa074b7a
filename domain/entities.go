package domain

import "time"

// User represents a registered account
type User struct {
	ID                      string
	Name                    string
	Email                   string
	PasswordHash            string
	Role                    string
	IsVerified              bool
	VerificationCode        string
	VerificationCodeExpires *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasLiveCode reports whether a verification code is stored and not yet expired at now
func (u *User) HasLiveCode(now time.Time) bool {
	if u.VerificationCode == "" || u.VerificationCodeExpires == nil {
		return false
	}
	return now.Before(*u.VerificationCodeExpires)
}

// ClearVerification marks the user verified and drops the stored code
func (u *User) ClearVerification() {
	u.IsVerified = true
	u.VerificationCode = ""
	u.VerificationCodeExpires = nil
}

// VerificationCode is a short-lived numeric code proving e-mail ownership
type VerificationCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at now
func (c *VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User      *User
	Token     string
	SessionID string
	ExpiresIn int64
}

// Session represents a signed-in user session
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	ClientIP  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
