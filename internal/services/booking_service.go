package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/infrastructure/notifications"
	"github.com/you/leadsvc/internal/metrics"
)

// BookingConfig controls booking id generation and date interpretation
type BookingConfig struct {
	IDPrefix string
	Location *time.Location
	// Now overrides the clock; nil means time.Now
	Now func() time.Time
}

// BookingServiceImpl implements domain.BookingService
type BookingServiceImpl struct {
	repo            domain.BookingRepository
	validator       *domain.BookingValidator
	notificationSvc domain.NotificationService
	publisher       domain.BookingPublisher
	audit           domain.AuditLogger
	logger          *zap.Logger
	config          BookingConfig
}

// NewBookingService creates a booking service. publisher and audit may be nil.
func NewBookingService(
	repo domain.BookingRepository,
	notificationSvc domain.NotificationService,
	publisher domain.BookingPublisher,
	audit domain.AuditLogger,
	logger *zap.Logger,
	config BookingConfig,
) *BookingServiceImpl {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.IDPrefix == "" {
		config.IDPrefix = "SHREEAI-"
	}
	return &BookingServiceImpl{
		repo:            repo,
		validator:       domain.NewBookingValidator(config.Location),
		notificationSvc: notificationSvc,
		publisher:       publisher,
		audit:           audit,
		logger:          logger.Named("booking"),
		config:          config,
	}
}

// Validate implements domain.BookingService
func (s *BookingServiceImpl) Validate(form *domain.BookingForm) error {
	if form == nil {
		return domain.NewValidationError("form", "Please fill all required fields")
	}
	trimForm(form)
	return s.validator.Validate(form)
}

// Submit implements domain.BookingService
func (s *BookingServiceImpl) Submit(ctx context.Context, userID string, form *domain.BookingForm) (*domain.Booking, error) {
	if err := s.Validate(form); err != nil {
		metrics.IncBookingCreated("invalid")
		return nil, err
	}

	date, err := domain.ParseBookingDate(form.Date, s.config.Location)
	if err != nil {
		metrics.IncBookingCreated("invalid")
		return nil, domain.NewValidationError("date", "Please select a valid date")
	}

	now := s.config.Now()
	booking := &domain.Booking{
		BookingID: s.config.IDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		UserID:    userID,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Gender:    form.Gender,
		Country:   form.Country,
		Date:      date.Format("2006-01-02"),
		Time:      form.Time,
		Services:  append([]string(nil), form.Services...),
		CreatedAt: now.UTC(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		metrics.IncBookingCreated("failed")
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.IncBookingCreated("ok")
	s.afterCreate(ctx, booking)
	return booking, nil
}

// List implements domain.BookingService
func (s *BookingServiceImpl) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, domain.NewValidationError("date", "Dates must use YYYY-MM-DD")
		}
	}
	return s.repo.List(ctx, filter)
}

// afterCreate runs the best-effort side effects of a stored booking. Failures
// are logged and never reach the caller.
func (s *BookingServiceImpl) afterCreate(ctx context.Context, b *domain.Booking) {
	log := s.logger.With(zap.String("booking_id", b.BookingID))

	if subject, body, err := notifications.BookingConfirmationEmail(b); err != nil {
		log.Warn("failed to render confirmation e-mail", zap.Error(err))
	} else if err := s.notificationSvc.SendEmail(b.Email, subject, body); err != nil {
		log.Warn("failed to send confirmation e-mail", zap.Error(err))
	}

	if err := s.notificationSvc.SendSMS(b.Phone, notifications.BookingConfirmationSMS(b)); err != nil {
		log.Warn("failed to send confirmation sms", zap.Error(err))
	}

	if s.publisher != nil {
		event := &domain.BookingEvent{
			Type:      domain.BookingCreatedEventType,
			BookingID: b.BookingID,
			UserID:    b.UserID,
			Email:     b.Email,
			Date:      b.Date,
			Time:      b.Time,
			Services:  b.Services,
			CreatedAt: b.CreatedAt,
		}
		if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
			log.Warn("failed to publish booking event", zap.Error(err))
		}
	}

	if s.audit != nil {
		event := domain.NewAuditEvent(domain.BookingCreatedEvent, b.UserID).
			WithEmail(b.Email).
			WithMetadata("booking_id", b.BookingID).
			WithMetadata("date", b.Date)
		if err := s.audit.LogEvent(ctx, event); err != nil {
			log.Warn("audit log failed", zap.Error(err))
		}
	}
}

func trimForm(form *domain.BookingForm) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	if g := domain.NormalizeGender(form.Gender); g != "" {
		form.Gender = g
	} else {
		form.Gender = strings.TrimSpace(form.Gender)
	}
	form.Country = strings.TrimSpace(form.Country)
	form.Date = strings.TrimSpace(form.Date)
	form.Time = strings.TrimSpace(form.Time)
}

var _ domain.BookingService = (*BookingServiceImpl)(nil)
