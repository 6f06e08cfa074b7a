package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/leadsvc/domain"
)

func newTestBooking(id, date string, createdAt time.Time) *domain.Booking {
	return &domain.Booking{
		BookingID: id,
		UserID:    "user-1",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+1 555 123 4567",
		Gender:    "female",
		Country:   "India",
		Date:      date,
		Time:      "10:00 AM",
		Services:  []string{"Data Analytics", "Predictive AI"},
		CreatedAt: createdAt,
	}
}

func TestBookingRepositoryImpl_CreateAndFind(t *testing.T) {
	repo := NewBookingRepository(setupTestDB(t))
	ctx := context.Background()

	booking := newTestBooking("SHREEAI-1700000000000", "2025-03-01", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, booking))

	stored, err := repo.FindByID(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.Services, stored.Services)
	assert.Equal(t, "2025-03-01", stored.Date)
	assert.Equal(t, "user-1", stored.UserID)

	_, err = repo.FindByID(ctx, "SHREEAI-0")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingRepositoryImpl_CreateDuplicate(t *testing.T) {
	repo := NewBookingRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestBooking("SHREEAI-1", "2025-03-01", time.Now())))
	err := repo.Create(ctx, newTestBooking("SHREEAI-1", "2025-03-02", time.Now()))
	assert.ErrorIs(t, err, domain.ErrBookingExists)
}

func TestBookingRepositoryImpl_List(t *testing.T) {
	repo := NewBookingRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestBooking("SHREEAI-1", "2025-03-01", base)))
	require.NoError(t, repo.Create(ctx, newTestBooking("SHREEAI-2", "2025-03-08", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestBooking("SHREEAI-3", "2025-03-15", base.Add(2*time.Hour))))

	tests := []struct {
		name     string
		filter   domain.BookingFilter
		expected []string
	}{
		{name: "all newest first", filter: domain.BookingFilter{}, expected: []string{"SHREEAI-3", "SHREEAI-2", "SHREEAI-1"}},
		{name: "from date", filter: domain.BookingFilter{From: "2025-03-08"}, expected: []string{"SHREEAI-3", "SHREEAI-2"}},
		{name: "date range", filter: domain.BookingFilter{From: "2025-03-01", To: "2025-03-08"}, expected: []string{"SHREEAI-2", "SHREEAI-1"}},
		{name: "limit", filter: domain.BookingFilter{Limit: 1}, expected: []string{"SHREEAI-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(bookings))
			for _, b := range bookings {
				ids = append(ids, b.BookingID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
