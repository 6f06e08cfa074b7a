package mocks

import (
	"context"
	"time"

	"github.com/you/leadsvc/domain"
)

// MockBookingService implements domain.BookingService interface for testing
type MockBookingService struct {
	ValidateFunc func(form *domain.BookingForm) error
	SubmitFunc   func(ctx context.Context, userID string, form *domain.BookingForm) (*domain.Booking, error)
	ListFunc     func(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// NewMockBookingService creates a new MockBookingService with default behaviors
func NewMockBookingService() *MockBookingService {
	return &MockBookingService{}
}

// Validate accepts every form unless ValidateFunc is set
func (m *MockBookingService) Validate(form *domain.BookingForm) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(form)
	}
	return nil
}

// Submit returns a booking built from form
func (m *MockBookingService) Submit(ctx context.Context, userID string, form *domain.BookingForm) (*domain.Booking, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, form)
	}
	return &domain.Booking{
		BookingID: "SHREEAI-1700000000000",
		UserID:    userID,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Gender:    form.Gender,
		Country:   form.Country,
		Date:      form.Date,
		Time:      form.Time,
		Services:  form.Services,
		CreatedAt: time.Now(),
	}, nil
}

// List returns no bookings unless ListFunc is set
func (m *MockBookingService) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Booking{}, nil
}

// MockExportService implements domain.ExportService interface for testing
type MockExportService struct {
	ExportBookingsFunc func(ctx context.Context, filter domain.BookingFilter) ([]byte, error)
}

// ExportBookings returns a fixed payload unless ExportBookingsFunc is set
func (m *MockExportService) ExportBookings(ctx context.Context, filter domain.BookingFilter) ([]byte, error) {
	if m.ExportBookingsFunc != nil {
		return m.ExportBookingsFunc(ctx, filter)
	}
	return []byte("xlsx"), nil
}

// Compile-time interface compliance verification
var (
	_ domain.BookingService = (*MockBookingService)(nil)
	_ domain.ExportService  = (*MockExportService)(nil)
)
