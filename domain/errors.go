package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrMissingFields      = errors.New("missing required fields")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Verification code errors
var (
	ErrCodeInvalid     = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrSendFailure     = errors.New("failed to send verification email")
	ErrResendTooSoon   = errors.New("verification code resend requested too soon")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Booking errors
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingExists   = errors.New("booking already exists")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// ValidationError reports the first form field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ResendWaitError carries the remaining resend cooldown. It matches ErrResendTooSoon.
type ResendWaitError struct {
	Seconds int64
}

func (e *ResendWaitError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.Seconds)
}

func (e *ResendWaitError) Is(target error) bool {
	return target == ErrResendTooSoon
}
