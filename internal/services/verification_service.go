package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/infrastructure/notifications"
	"github.com/you/leadsvc/internal/metrics"
)

// Verification codes are six decimal digits in [100000, 999999]
const (
	codeLow  = 100000
	codeHigh = 999999
)

// VerificationConfig tunes code lifetime and resend throttling
type VerificationConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration
	// Now overrides the clock; nil means time.Now
	Now func() time.Time
}

// VerificationServiceImpl implements domain.VerificationService. Codes live on
// the user record; Redis only holds the resend throttle.
type VerificationServiceImpl struct {
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	audit           domain.AuditLogger
	logger          *zap.Logger
	config          VerificationConfig
}

// NewVerificationService creates a verification service. redisClient may be nil,
// in which case resends are not throttled.
func NewVerificationService(
	userRepo domain.UserRepository,
	notificationSvc domain.NotificationService,
	redisClient *redis.Client,
	audit domain.AuditLogger,
	logger *zap.Logger,
	config VerificationConfig,
) *VerificationServiceImpl {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &VerificationServiceImpl{
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		audit:           audit,
		logger:          logger.Named("verification"),
		config:          config,
	}
}

// Issue implements domain.VerificationService
func (s *VerificationServiceImpl) Issue(ctx context.Context, email string) (*domain.VerificationCode, error) {
	user, err := s.pendingUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issueFor(ctx, user)
}

// Resend implements domain.VerificationService
func (s *VerificationServiceImpl) Resend(ctx context.Context, email string) (*domain.VerificationCode, error) {
	user, err := s.pendingUser(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, wait, err := s.CanResend(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ResendWaitError{Seconds: wait}
	}

	return s.issueFor(ctx, user)
}

// Verify implements domain.VerificationService
func (s *VerificationServiceImpl) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	if user.VerificationCode == "" ||
		subtle.ConstantTimeCompare([]byte(user.VerificationCode), []byte(code)) != 1 {
		s.recordFailure(ctx, user, domain.ErrCodeInvalid, "invalid")
		return nil, domain.ErrCodeInvalid
	}

	stored := domain.VerificationCode{Email: email, Code: user.VerificationCode}
	if user.VerificationCodeExpires != nil {
		stored.ExpiresAt = *user.VerificationCodeExpires
	}
	if user.VerificationCodeExpires == nil || stored.Expired(s.config.Now()) {
		s.recordFailure(ctx, user, domain.ErrCodeExpired, "expired")
		return nil, domain.ErrCodeExpired
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.ClearVerification()

	if s.redisClient != nil {
		s.redisClient.Del(ctx, resendKey(email))
	}

	metrics.IncVerification("ok")
	s.logAudit(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

// CanResend implements domain.VerificationService
func (s *VerificationServiceImpl) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if s.redisClient == nil {
		return true, 0, nil
	}

	ttl, err := s.redisClient.TTL(ctx, resendKey(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(math.Ceil(ttl.Seconds())), nil
}

func (s *VerificationServiceImpl) pendingUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}
	return user, nil
}

// issueFor stores a fresh code on user, replacing any previous one, and mails it
func (s *VerificationServiceImpl) issueFor(ctx context.Context, user *domain.User) (*domain.VerificationCode, error) {
	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	expiresAt := s.config.Now().Add(s.config.TTL)

	if err := s.userRepo.SetVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}
	user.VerificationCode = code
	user.VerificationCodeExpires = &expiresAt

	if err := s.send(user.Email, code); err != nil {
		metrics.IncCodeSent("failed")
		s.logAudit(ctx, domain.NewAuditEvent(domain.VerificationCodeFailedEvent, user.ID).
			WithEmail(user.Email).WithError(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrSendFailure, err)
	}

	if s.redisClient != nil && s.config.ResendWindow > 0 {
		if err := s.redisClient.Set(ctx, resendKey(user.Email), 1, s.config.ResendWindow).Err(); err != nil {
			s.logger.Warn("failed to set resend throttle", zap.Error(err))
		}
	}

	metrics.IncCodeSent("ok")
	s.logAudit(ctx, domain.NewAuditEvent(domain.VerificationCodeSentEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("expires_at", expiresAt))

	return &domain.VerificationCode{Email: user.Email, Code: code, ExpiresAt: expiresAt}, nil
}

func (s *VerificationServiceImpl) send(email, code string) error {
	subject, body, err := notifications.VerificationEmail(code, s.config.TTL)
	if err != nil {
		return err
	}
	return s.notificationSvc.SendEmail(email, subject, body)
}

// generateSecureCode returns a code drawn uniformly from [codeLow, codeHigh]
func (s *VerificationServiceImpl) generateSecureCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeHigh-codeLow+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeLow, 10), nil
}

func (s *VerificationServiceImpl) recordFailure(ctx context.Context, user *domain.User, err error, result string) {
	metrics.IncVerification(result)
	s.logAudit(ctx, domain.NewAuditEvent(domain.EmailVerificationFailEvent, user.ID).
		WithEmail(user.Email).WithError(err))
}

func (s *VerificationServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Warn("audit log failed", zap.Error(err))
	}
}

func resendKey(email string) string {
	return "verify:resend:" + strings.ToLower(email)
}

var _ domain.VerificationService = (*VerificationServiceImpl)(nil)
