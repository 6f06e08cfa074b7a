package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id string) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteByUser removes every session of userID except keepSessionID and
	// returns how many were removed
	DeleteByUser(ctx context.Context, userID, keepSessionID string) (int, error)
}

// BookingRepository defines booking data access operations
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, bookingID string) (*Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*Booking, error)
}

// AuthService defines account business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	VerifyEmail(ctx context.Context, email, code string) (*AuthResult, error)
	ResendCode(ctx context.Context, email string) error
	SendCode(ctx context.Context, email string) error
	Signin(ctx context.Context, email, password string) (*AuthResult, error)
	Signout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID, name string) (*User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// VerificationService defines e-mail verification code operations
type VerificationService interface {
	Issue(ctx context.Context, email string) (*VerificationCode, error)
	Verify(ctx context.Context, email, code string) (*User, error)
	Resend(ctx context.Context, email string) (*VerificationCode, error)
	CanResend(ctx context.Context, email string) (bool, int64, error)
}

// BookingService defines consultation booking operations
type BookingService interface {
	Validate(form *BookingForm) error
	Submit(ctx context.Context, userID string, form *BookingForm) (*Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*Booking, error)
}

// ExportService renders bookings into a downloadable spreadsheet
type ExportService interface {
	ExportBookings(ctx context.Context, filter BookingFilter) ([]byte, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	NeedsRehash(hashedPassword string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID string, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

// NotificationService defines outbound notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// BookingPublisher emits booking lifecycle events to downstream consumers
type BookingPublisher interface {
	PublishBookingCreated(ctx context.Context, event *BookingEvent) error
	Close() error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
