package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Verification events
	EmailVerifiedEvent          AuditEventType = "EMAIL_VERIFIED"
	EmailVerificationFailEvent  AuditEventType = "EMAIL_VERIFICATION_FAILED"
	VerificationCodeSentEvent   AuditEventType = "VERIFICATION_CODE_SENT"
	VerificationCodeFailedEvent AuditEventType = "VERIFICATION_CODE_SEND_FAILED"

	// Authentication events
	UserLoginEvent           AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent    AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent    AuditEventType = "USER_REGISTERED"
	UserRegistrationRollback AuditEventType = "USER_REGISTRATION_ROLLED_BACK"
	UserLogoutEvent          AuditEventType = "USER_LOGOUT"
	PasswordChangedEvent     AuditEventType = "PASSWORD_CHANGED"
	ProfileUpdatedEvent      AuditEventType = "PROFILE_UPDATED"

	// Booking events
	BookingCreatedEvent AuditEventType = "BOOKING_CREATED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithSession sets the session id
func (e *AuditEvent) WithSession(sessionID string) *AuditEvent {
	e.SessionID = sessionID
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
