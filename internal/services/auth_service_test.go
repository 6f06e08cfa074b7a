package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/infrastructure/repositories"
	"github.com/you/leadsvc/internal/mocks"
)

type authFixture struct {
	svc          *AuthServiceImpl
	store        *userStore
	sessions     domain.SessionRepository
	passwords    *mocks.MockPasswordService
	notifier     *mocks.MockNotificationService
	tokens       *mocks.MockTokenService
	audit        *mocks.MockAuditLogger
	verification *VerificationServiceImpl
	clock        *fakeClock
}

func newAuthFixture(t *testing.T, admins ...string) *authFixture {
	t.Helper()

	_, client := setupTestRedis(t)
	f := &authFixture{
		store:     newUserStore(),
		notifier:  mocks.NewMockNotificationService(),
		tokens:    mocks.NewMockTokenService(),
		audit:     &mocks.MockAuditLogger{},
		clock:     newFakeClock(),
		passwords: mocks.NewMockPasswordService(),
	}
	f.sessions = repositories.NewSessionRepository(client, f.tokens.AccessTTL())
	userRepo := f.store.repo()
	f.verification = NewVerificationService(userRepo, f.notifier, client, f.audit, zap.NewNop(), VerificationConfig{
		TTL:          10 * time.Minute,
		ResendWindow: 30 * time.Second,
		Now:          f.clock.Now,
	})
	isAdmin := func(email string) bool {
		for _, a := range admins {
			if a == email {
				return true
			}
		}
		return false
	}
	f.svc = NewAuthService(userRepo, f.sessions, f.passwords, f.tokens,
		f.verification, f.audit, zap.NewNop(), isAdmin)
	return f
}

// lastCode returns the code most recently e-mailed to the user
func (f *authFixture) lastCode(t *testing.T, email string) string {
	t.Helper()
	u := f.store.get(email)
	require.NotNil(t, u)
	require.NotEmpty(t, u.VerificationCode)
	return u.VerificationCode
}

func (f *authFixture) verifiedUser(t *testing.T, name, email, password string) *domain.AuthResult {
	t.Helper()
	_, err := f.svc.Signup(context.Background(), name, email, password)
	require.NoError(t, err)
	res, err := f.svc.VerifyEmail(context.Background(), email, f.lastCode(t, email))
	require.NoError(t, err)
	return res
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name        string
		userName    string
		email       string
		password    string
		setup       func(f *authFixture)
		expectedErr error
	}{
		{name: "success", userName: "Jane", email: "Jane@Example.com ", password: "secret1"},
		{name: "missing name", email: "jane@example.com", password: "secret1", expectedErr: domain.ErrMissingFields},
		{name: "missing password", userName: "Jane", email: "jane@example.com", expectedErr: domain.ErrMissingFields},
		{name: "invalid email", userName: "Jane", email: "jane@", password: "secret1", expectedErr: domain.ErrInvalidEmail},
		{name: "short password", userName: "Jane", email: "jane@example.com", password: "12345", expectedErr: domain.ErrWeakPassword},
		{
			name: "duplicate email", userName: "Jane", email: "jane@example.com", password: "secret1",
			setup: func(f *authFixture) {
				f.store.put(&domain.User{ID: "existing", Email: "jane@example.com"})
			},
			expectedErr: domain.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			user, err := f.svc.Signup(context.Background(), tt.userName, tt.email, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", user.Email)
			assert.Equal(t, domain.RoleUser, user.Role)
			assert.False(t, user.IsVerified)

			stored := f.store.get("jane@example.com")
			require.NotNil(t, stored)
			assert.Equal(t, "hashed_secret1", stored.PasswordHash)
			assert.Regexp(t, sixDigits, stored.VerificationCode)
			assert.Equal(t, 1, f.notifier.EmailCount())
			assert.Contains(t, f.audit.Types(), domain.UserRegistrationEvent)
		})
	}
}

func TestAuthService_SignupRollsBackOnSendFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.notifier.SendEmailFunc = func(to, subject, body string) error {
		return errors.New("sendgrid rejected the message")
	}

	_, err := f.svc.Signup(context.Background(), "Jane", "jane@example.com", "secret1")
	require.ErrorIs(t, err, domain.ErrSendFailure)

	assert.Nil(t, f.store.get("jane@example.com"), "user must be removed after a failed send")
	assert.Contains(t, f.audit.Types(), domain.UserRegistrationRollback)

	// the address can sign up again once mail works
	f.notifier.SendEmailFunc = nil
	_, err = f.svc.Signup(context.Background(), "Jane", "jane@example.com", "secret1")
	assert.NoError(t, err)
}

func TestAuthService_SignupAssignsAdminRole(t *testing.T) {
	f := newAuthFixture(t, "boss@example.com")

	res := f.verifiedUser(t, "Boss", "boss@example.com", "secret1")
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	claims, err := f.tokens.ValidateAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthService_VerifyEmailSignsIn(t *testing.T) {
	f := newAuthFixture(t)
	res := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")

	assert.True(t, res.User.IsVerified)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64((7 * 24 * time.Hour).Seconds()), res.ExpiresIn)

	session, err := f.sessions.FindByID(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, session.UserID)

	_, err = f.svc.VerifyEmail(context.Background(), "jane@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)

	_, err = f.svc.VerifyEmail(context.Background(), "", "123456")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestAuthService_Signin(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		expectedErr error
	}{
		{name: "success", email: "jane@example.com", password: "secret1"},
		{name: "email is case insensitive", email: "JANE@example.com", password: "secret1"},
		{name: "unknown email", email: "ghost@example.com", password: "secret1", expectedErr: domain.ErrInvalidCredentials},
		{name: "wrong password", email: "jane@example.com", password: "nope123", expectedErr: domain.ErrInvalidCredentials},
		{name: "unverified", email: "pending@example.com", password: "secret1", expectedErr: domain.ErrEmailNotVerified},
		{name: "missing password", email: "jane@example.com", expectedErr: domain.ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.verifiedUser(t, "Jane", "jane@example.com", "secret1")
			_, err := f.svc.Signup(context.Background(), "Pending", "pending@example.com", "secret1")
			require.NoError(t, err)

			res, err := f.svc.Signin(context.Background(), tt.email, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				if tt.expectedErr != domain.ErrMissingFields {
					assert.Contains(t, f.audit.Types(), domain.UserLoginFailureEvent)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", res.User.Email)
			claims, err := f.tokens.ValidateAccessToken(res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, claims.UserID)
			assert.Equal(t, res.SessionID, claims.SessionID)
		})
	}
}

func TestAuthService_SignoutRevokesSession(t *testing.T) {
	f := newAuthFixture(t)
	res := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")

	require.NoError(t, f.svc.Signout(context.Background(), res.SessionID))

	_, err := f.sessions.FindByID(context.Background(), res.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Contains(t, f.audit.Types(), domain.UserLogoutEvent)
}

func TestAuthService_ResendAndSendCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "Jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResendCode(ctx, "jane@example.com"), domain.ErrResendTooSoon)
	assert.ErrorIs(t, f.svc.SendCode(ctx, "jane@example.com"), domain.ErrResendTooSoon)
	assert.ErrorIs(t, f.svc.ResendCode(ctx, ""), domain.ErrMissingFields)
	assert.ErrorIs(t, f.svc.SendCode(ctx, "ghost@example.com"), domain.ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	res := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")
	ctx := context.Background()

	user, err := f.svc.UpdateProfile(ctx, res.User.ID, "  Jane Smith ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)
	assert.Equal(t, "Jane Smith", f.store.get("jane@example.com").Name)

	user, err = f.svc.UpdateProfile(ctx, res.User.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name, "empty name keeps the existing one")

	_, err = f.svc.UpdateProfile(ctx, "missing", "X")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	profile, err := f.svc.GetProfile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", profile.Name)
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		next        string
		expectedErr error
	}{
		{name: "success", current: "secret1", next: "newsecret"},
		{name: "wrong current password", current: "wrong12", next: "newsecret", expectedErr: domain.ErrIncorrectPassword},
		{name: "new password too short", current: "secret1", next: "abc", expectedErr: domain.ErrWeakPassword},
		{name: "missing fields", current: "", next: "newsecret", expectedErr: domain.ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			res := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")

			err := f.svc.ChangePassword(context.Background(), res.User.ID, tt.current, tt.next)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, "hashed_secret1", f.store.get("jane@example.com").PasswordHash)
				return
			}

			require.NoError(t, err)
			_, err = f.svc.Signin(context.Background(), "jane@example.com", "newsecret")
			assert.NoError(t, err)
			_, err = f.svc.Signin(context.Background(), "jane@example.com", "secret1")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_SigninRecordsClientDetails(t *testing.T) {
	f := newAuthFixture(t)
	f.verifiedUser(t, "Jane", "jane@example.com", "secret1")

	ctx := domain.WithRequestMeta(context.Background(), domain.RequestMeta{
		UserAgent: "leadctl/1.0",
		ClientIP:  "203.0.113.7",
	})
	res, err := f.svc.Signin(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)

	session, err := f.sessions.FindByID(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "leadctl/1.0", session.UserAgent)
	assert.Equal(t, "203.0.113.7", session.ClientIP)
}

func TestAuthService_ChangePasswordRevokesOtherSessions(t *testing.T) {
	f := newAuthFixture(t)
	current := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")
	other, err := f.svc.Signin(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)

	ctx := domain.WithRequestMeta(context.Background(), domain.RequestMeta{SessionID: current.SessionID})
	require.NoError(t, f.svc.ChangePassword(ctx, current.User.ID, "secret1", "newsecret"))

	_, err = f.sessions.FindByID(context.Background(), current.SessionID)
	assert.NoError(t, err, "the caller stays signed in")
	_, err = f.sessions.FindByID(context.Background(), other.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// without a caller session every session goes
	require.NoError(t, f.svc.ChangePassword(context.Background(), current.User.ID, "newsecret", "secret1"))
	_, err = f.sessions.FindByID(context.Background(), current.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_SigninUpgradesOutdatedHash(t *testing.T) {
	f := newAuthFixture(t)
	res := f.verifiedUser(t, "Jane", "jane@example.com", "secret1")

	legacy := f.store.get("jane@example.com")
	legacy.PasswordHash = "legacy:secret1"
	require.NoError(t, f.store.repo().Update(context.Background(), legacy))
	f.passwords.VerifyFunc = func(hashedPassword, password string) bool {
		return hashedPassword == "legacy:"+password || hashedPassword == "hashed_"+password
	}

	_, err := f.svc.Signin(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "hashed_secret1", f.store.get("jane@example.com").PasswordHash)

	// up-to-date hashes are left alone
	f.passwords.HashFunc = func(string) (string, error) {
		t.Fatal("unexpected rehash")
		return "", nil
	}
	_, err = f.svc.Signin(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, f.store.get("jane@example.com").ID)
}

func TestAuthService_PasswordTooLong(t *testing.T) {
	f := newAuthFixture(t)
	long := strings.Repeat("p", 73)

	_, err := f.svc.Signup(context.Background(), "Jane", "jane@example.com", long)
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.Nil(t, f.store.get("jane@example.com"))
}
