package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/leadsvc/domain"
)

const defaultListLimit = 500

// BookingRepositoryImpl implements domain.BookingRepository using GORM
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// DBBooking represents the database model for Booking
type DBBooking struct {
	ID        uint      `gorm:"primaryKey"`
	BookingID string    `gorm:"uniqueIndex;size:64"`
	UserID    string    `gorm:"index;size:36"`
	Name      string    `gorm:"size:255"`
	Email     string    `gorm:"index;size:255"`
	Phone     string    `gorm:"size:32"`
	Gender    string    `gorm:"size:32"`
	Country   string    `gorm:"size:128"`
	Date      string    `gorm:"index;size:10"`
	Time      string    `gorm:"size:16"`
	Services  []string  `gorm:"serializer:json"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBBooking) TableName() string {
	return "bookings"
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) domain.BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

// Create implements domain.BookingRepository
func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *domain.Booking) error {
	dbBooking := bookingToDB(booking)
	if err := r.db.WithContext(ctx).Create(dbBooking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrBookingExists
		}
		return err
	}
	return nil
}

// FindByID implements domain.BookingRepository
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var dbBooking DBBooking
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&dbBooking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return bookingFromDB(&dbBooking), nil
}

// List implements domain.BookingRepository. Newest bookings come first.
func (r *BookingRepositoryImpl) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&DBBooking{})
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []DBBooking
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(rows))
	for i := range rows {
		out = append(out, bookingFromDB(&rows[i]))
	}
	return out, nil
}

func bookingToDB(b *domain.Booking) *DBBooking {
	return &DBBooking{
		BookingID: b.BookingID,
		UserID:    b.UserID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Gender:    b.Gender,
		Country:   b.Country,
		Date:      b.Date,
		Time:      b.Time,
		Services:  b.Services,
		CreatedAt: b.CreatedAt,
	}
}

func bookingFromDB(b *DBBooking) *domain.Booking {
	return &domain.Booking{
		BookingID: b.BookingID,
		UserID:    b.UserID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Gender:    b.Gender,
		Country:   b.Country,
		Date:      b.Date,
		Time:      b.Time,
		Services:  b.Services,
		CreatedAt: b.CreatedAt,
	}
}
