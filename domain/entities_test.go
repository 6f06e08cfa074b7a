package domain

import (
	"testing"
	"time"
)

func TestUser_HasLiveCode(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(5 * time.Minute)
	past := now.Add(-time.Second)

	tests := []struct {
		name     string
		user     *User
		expected bool
	}{
		{
			name:     "code with future expiry",
			user:     &User{VerificationCode: "123456", VerificationCodeExpires: &future},
			expected: true,
		},
		{
			name:     "code already expired",
			user:     &User{VerificationCode: "123456", VerificationCodeExpires: &past},
			expected: false,
		},
		{
			name:     "no code stored",
			user:     &User{VerificationCodeExpires: &future},
			expected: false,
		},
		{
			name:     "code without expiry",
			user:     &User{VerificationCode: "123456"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasLiveCode(now); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUser_ClearVerification(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	user := &User{
		Email:                   "jane@example.com",
		VerificationCode:        "654321",
		VerificationCodeExpires: &expires,
	}

	user.ClearVerification()

	if !user.IsVerified {
		t.Error("user should be verified")
	}
	if user.VerificationCode != "" || user.VerificationCodeExpires != nil {
		t.Error("verified user must not keep a verification code")
	}
	if user.HasLiveCode(time.Now()) {
		t.Error("verified user must not have a live code")
	}
}

func TestVerificationCode_Expired(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := &VerificationCode{Code: "123456", ExpiresAt: issued.Add(10 * time.Minute)}

	if code.Expired(issued.Add(9 * time.Minute)) {
		t.Error("code should be valid before expiry")
	}
	if code.Expired(issued.Add(10 * time.Minute)) {
		t.Error("code should still be valid exactly at expiry")
	}
	if !code.Expired(issued.Add(10*time.Minute + time.Millisecond)) {
		t.Error("code should be expired after expiry")
	}
}

func TestAuditEvent_Builders(t *testing.T) {
	event := NewAuditEvent(BookingCreatedEvent, "user-1").
		WithEmail("jane@example.com").
		WithSession("sess-1").
		WithMetadata("booking_id", "SHREEAI-1")

	if !event.Success {
		t.Error("new events should be successful")
	}
	if event.Metadata["booking_id"] != "SHREEAI-1" {
		t.Errorf("unexpected metadata %v", event.Metadata)
	}

	event.WithError(ErrSendFailure)
	if event.Success || event.ErrorMsg != ErrSendFailure.Error() {
		t.Error("WithError should mark event failed and keep message")
	}
}
