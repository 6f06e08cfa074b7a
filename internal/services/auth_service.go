package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/metrics"
)

// MinPasswordLength is the shortest password accepted at signup and on change
const MinPasswordLength = 6

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo     domain.UserRepository
	sessionRepo  domain.SessionRepository
	passwordSvc  domain.PasswordService
	tokenSvc     domain.TokenService
	verification domain.VerificationService
	audit        domain.AuditLogger
	logger       *zap.Logger
	isAdmin      func(email string) bool
	now          func() time.Time
}

// NewAuthService creates a new auth service. isAdmin may be nil.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	verification domain.VerificationService,
	audit domain.AuditLogger,
	logger *zap.Logger,
	isAdmin func(email string) bool,
) *AuthServiceImpl {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthServiceImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		passwordSvc:  passwordSvc,
		tokenSvc:     tokenSvc,
		verification: verification,
		audit:        audit,
		logger:       logger.Named("auth"),
		isAdmin:      isAdmin,
		now:          time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}
	if !domain.IsValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	// Check if user already exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		metrics.IncSignup("duplicate")
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if s.isAdmin(email) {
		role = domain.RoleAdmin
	}

	now := s.now()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			metrics.IncSignup("duplicate")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	code, err := s.verification.Issue(ctx, email)
	if err != nil {
		// roll back: the user never received a code
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("signup rollback failed", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		metrics.IncSignup("rolled_back")
		s.logAudit(ctx, domain.NewAuditEvent(domain.UserRegistrationRollback, user.ID).
			WithEmail(email).WithError(err))
		return nil, err
	}
	user.VerificationCode = code.Code
	user.VerificationCodeExpires = &code.ExpiresAt

	metrics.IncSignup("ok")
	s.logAudit(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(email).WithMetadata("role", role))
	return user, nil
}

// VerifyEmail implements domain.AuthService. A successful verification signs the user in.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.verification.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

// ResendCode implements domain.AuthService
func (s *AuthServiceImpl) ResendCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingFields
	}
	_, err := s.verification.Resend(ctx, email)
	return err
}

// SendCode implements domain.AuthService. The code is always generated here,
// never taken from the caller, and shares the resend throttle.
func (s *AuthServiceImpl) SendCode(ctx context.Context, email string) error {
	return s.ResendCode(ctx, email)
}

// Signin implements domain.AuthService
func (s *AuthServiceImpl) Signin(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, "", email, domain.ErrInvalidCredentials)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsVerified {
		s.loginFailed(ctx, user.ID, email, domain.ErrEmailNotVerified)
		return nil, domain.ErrEmailNotVerified
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.loginFailed(ctx, user.ID, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	s.upgradeHash(ctx, user, password)

	return s.startSession(ctx, user)
}

// Signout implements domain.AuthService
func (s *AuthServiceImpl) Signout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, "").WithSession(sessionID))
	return nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile implements domain.AuthService. An empty name keeps the current one.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" && name != user.Name {
		user.Name = name
		user.UpdatedAt = s.now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		s.logAudit(ctx, domain.NewAuditEvent(domain.ProfileUpdatedEvent, user.ID).WithEmail(user.Email))
	}

	return user, nil
}

// ChangePassword implements domain.AuthService
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, currentPassword) {
		s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordChangedEvent, user.ID).
			WithEmail(user.Email).WithError(domain.ErrIncorrectPassword))
		return domain.ErrIncorrectPassword
	}

	if len(newPassword) < MinPasswordLength {
		return domain.ErrWeakPassword
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashedPassword
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// sign out every other device; the caller's session stays valid
	current := domain.RequestMetaFrom(ctx).SessionID
	revoked, err := s.sessionRepo.DeleteByUser(ctx, user.ID, current)
	if err != nil {
		s.logger.Warn("failed to revoke other sessions", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordChangedEvent, user.ID).
		WithEmail(user.Email).WithMetadata("revoked_sessions", revoked))
	return nil
}

// upgradeHash re-hashes a password stored with an outdated bcrypt cost.
// Failures only cost another attempt on the next signin.
func (s *AuthServiceImpl) upgradeHash(ctx context.Context, user *domain.User, password string) {
	if !s.passwordSvc.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("password rehash not saved", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// startSession creates a Redis session and an access token bound to it
func (s *AuthServiceImpl) startSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	now := s.now()
	ttl := s.tokenSvc.AccessTTL()

	meta := domain.RequestMetaFrom(ctx)
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		ClientIP:  meta.ClientIP,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	role := user.Role
	if s.isAdmin(user.Email) {
		role = domain.RoleAdmin
	}

	token, err := s.tokenSvc.GenerateAccessToken(user.ID, role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	event := domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithEmail(user.Email).WithSession(session.ID)
	if meta.ClientIP != "" {
		event = event.WithMetadata("client_ip", meta.ClientIP)
	}
	s.logAudit(ctx, event)

	return &domain.AuthResult{
		User:      user,
		Token:     token,
		SessionID: session.ID,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, userID, email string, err error) {
	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, userID).
		WithEmail(email).WithError(err))
}

func (s *AuthServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Warn("audit log failed", zap.Error(err))
	}
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)
