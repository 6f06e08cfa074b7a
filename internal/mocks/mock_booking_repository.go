package mocks

import (
	"context"
	"sync"

	"github.com/you/leadsvc/domain"
)

// MockBookingRepository implements domain.BookingRepository. Without func
// overrides it keeps bookings in memory.
type MockBookingRepository struct {
	CreateFunc   func(ctx context.Context, booking *domain.Booking) error
	FindByIDFunc func(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListFunc     func(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)

	mu       sync.Mutex
	bookings []*domain.Booking
}

// NewMockBookingRepository creates a new MockBookingRepository with default behaviors
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

// Create stores a booking
func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.BookingID == booking.BookingID {
			return domain.ErrBookingExists
		}
	}
	m.bookings = append(m.bookings, booking)
	return nil
}

// FindByID finds a booking by its public id
func (m *MockBookingRepository) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, bookingID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.BookingID == bookingID {
			return b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

// List returns stored bookings, newest first
func (m *MockBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Booking, 0, len(m.bookings))
	for i := len(m.bookings) - 1; i >= 0; i-- {
		b := m.bookings[i]
		if (filter.From == "" || b.Date >= filter.From) && (filter.To == "" || b.Date <= filter.To) {
			out = append(out, b)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Stored returns a copy of the bookings kept in memory
func (m *MockBookingRepository) Stored() []*domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Booking(nil), m.bookings...)
}

// Compile-time interface compliance verification
var _ domain.BookingRepository = (*MockBookingRepository)(nil)
