package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/client"
	httpx "github.com/you/leadsvc/internal/http"
	"github.com/you/leadsvc/internal/http/handlers"
	"github.com/you/leadsvc/internal/http/middleware"
	"github.com/you/leadsvc/internal/mocks"
)

type fakeServer struct {
	auth     *mocks.MockAuthService
	sessions *mocks.MockSessionRepository
	srv      *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := &fakeServer{
		auth:     mocks.NewMockAuthService(),
		sessions: mocks.NewMockSessionRepository(),
	}
	fs.sessions.FindByIDFunc = func(ctx context.Context, id string) (*domain.Session, error) {
		if id != "sess-1" {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	router := httpx.BuildRouter(httpx.RouterDeps{
		Auth:     handlers.NewAuthHandlers(fs.auth, nil),
		Bookings: handlers.NewBookingHandlers(mocks.NewMockBookingService(), &mocks.MockExportService{}, nil),
		Policies: handlers.NewPolicyHandlers(mocks.NewMockPolicyService()),
		JWT:      middleware.NewAuthMW(mocks.NewMockTokenService(), fs.sessions),
		Casbin:   middleware.NewCasbinMW(mocks.NewMockPolicyService()),
	})
	fs.srv = httptest.NewServer(router)
	t.Cleanup(fs.srv.Close)
	return fs
}

// resetFlags restores every flag to its default so commands can run repeatedly
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if r, ok := f.Value.(pflag.SliceValue); ok {
			_ = r.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs leadctl against the fake server with a per-test session file
func execute(t *testing.T, fs *fakeServer, session string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--server", fs.srv.URL, "--session", session}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_SignupVerifyBookSignout(t *testing.T) {
	fs := newFakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := execute(t, fs, session, "signup", "--name", "Ravi", "--email", "ravi@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "User registered successfully")

	store, err := client.LoadStore(session)
	require.NoError(t, err)
	st := store.Snapshot()
	assert.True(t, st.IsSignedUp)
	assert.Equal(t, "ravi@example.com", st.PendingEmail)
	assert.True(t, st.Modals[client.ModalSignup])
	require.NotNil(t, st.CodeExpiry)
	assert.WithinDuration(t, time.Now().Add(codeTTL), *st.CodeExpiry, time.Minute)

	// verify falls back to the pending e-mail
	var verifiedEmail string
	fs.auth.VerifyEmailFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
		verifiedEmail = email
		return &domain.AuthResult{
			User:      &domain.User{ID: "user-1", Name: "Ravi", Email: email, IsVerified: true},
			Token:     "token:user-1:user:sess-1",
			SessionID: "sess-1",
			ExpiresIn: 3600,
		}, nil
	}
	out, err = execute(t, fs, session, "verify", "--code", "123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Email verified successfully")
	assert.Equal(t, "ravi@example.com", verifiedEmail)

	store, err = client.LoadStore(session)
	require.NoError(t, err)
	st = store.Snapshot()
	assert.Equal(t, "token:user-1:user:sess-1", st.Token)
	assert.Empty(t, st.PendingEmail)
	assert.False(t, st.Modals[client.ModalSignup])

	out, err = execute(t, fs, session, "me")
	require.NoError(t, err)
	assert.Contains(t, out, "user-1")

	out, err = execute(t, fs, session, "book",
		"--phone", "9876543210", "--gender", "Male", "--country", "India",
		"--date", "2025-03-01", "--time", "10:00 AM",
		"--service", "Data Analytics", "--service", "Predictive AI")
	require.NoError(t, err)
	assert.Contains(t, out, "SHREEAI-1700000000000")

	store, err = client.LoadStore(session)
	require.NoError(t, err)
	st = store.Snapshot()
	assert.False(t, st.Modals[client.ModalBooking])
	assert.True(t, st.Modals[client.ModalSuccess])

	out, err = execute(t, fs, session, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in:  true")
	assert.Contains(t, out, "Ravi <ravi@example.com>")
	assert.Contains(t, out, "open:       success")

	out, err = execute(t, fs, session, "signout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out successfully")

	store, err = client.LoadStore(session)
	require.NoError(t, err)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Snapshot().User)
}

func TestCLI_Errors(t *testing.T) {
	fs := newFakeServer(t)

	tests := []struct {
		name      string
		setup     func()
		args      []string
		errSubstr string
	}{
		{
			name:      "verify without pending signup",
			args:      []string{"verify", "--code", "123456"},
			errSubstr: "no pending signup",
		},
		{
			name:      "book without signing in",
			args:      []string{"book", "--date", "2025-03-01"},
			errSubstr: "not signed in",
		},
		{
			name: "signin with unverified e-mail",
			setup: func() {
				fs.auth.SigninFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrEmailNotVerified
				}
			},
			args:      []string{"signin", "--email", "a@b.co", "--password", "secret1"},
			errSubstr: "Please verify your email first",
		},
		{
			name: "resend too soon",
			setup: func() {
				fs.auth.ResendCodeFunc = func(ctx context.Context, email string) error {
					return domain.ErrResendTooSoon
				}
			},
			args:      []string{"resend", "--email", "a@b.co"},
			errSubstr: "429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			session := filepath.Join(t.TempDir(), "session.json")
			_, err := execute(t, fs, session, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestCLI_SignoutWithRevokedSession(t *testing.T) {
	fs := newFakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	store := client.NewStore(session)
	require.NoError(t, store.SignIn(client.User{ID: "user-1", Email: "a@b.co"}, "token:user-1:user:sess-gone"))

	out, err := execute(t, fs, session, "signout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out successfully")

	store, err = client.LoadStore(session)
	require.NoError(t, err)
	assert.Empty(t, store.Token())
}
