package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/you/leadsvc/domain"
)

const bookingCollection = "bookings"

type mongoBooking struct {
	BookingID string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	Gender    string    `bson:"gender"`
	Country   string    `bson:"country"`
	Date      string    `bson:"date"`
	Time      string    `bson:"time"`
	Services  []string  `bson:"services"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoBookingRepository implements domain.BookingRepository on a MongoDB collection
type MongoBookingRepository struct {
	col *mongo.Collection
}

// NewMongoBookingRepository creates a booking repository backed by db.bookings
func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{col: db.Collection(bookingCollection)}
}

// EnsureIndexes creates the date and creation-time indexes used by listings
func (r *MongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	return err
}

// Create implements domain.BookingRepository
func (r *MongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if _, err := r.col.InsertOne(ctx, bookingToMongo(booking)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrBookingExists
		}
		return err
	}
	return nil
}

// FindByID implements domain.BookingRepository
func (r *MongoBookingRepository) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var doc mongoBooking
	if err := r.col.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return bookingFromMongo(&doc), nil
}

// List implements domain.BookingRepository. Newest bookings come first.
func (r *MongoBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	query := bson.M{}
	dateRange := bson.M{}
	if filter.From != "" {
		dateRange["$gte"] = filter.From
	}
	if filter.To != "" {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	limit := int64(filter.Limit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Booking
	for cur.Next(ctx) {
		var doc mongoBooking
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, bookingFromMongo(&doc))
	}
	return out, cur.Err()
}

func bookingToMongo(b *domain.Booking) *mongoBooking {
	return &mongoBooking{
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

func bookingFromMongo(doc *mongoBooking) *domain.Booking {
	return &domain.Booking{
		BookingID: doc.BookingID,
		UserID:    doc.UserID,
		Name:      doc.Name,
		Email:     doc.Email,
		Phone:     doc.Phone,
		Gender:    doc.Gender,
		Country:   doc.Country,
		Date:      doc.Date,
		Time:      doc.Time,
		Services:  doc.Services,
		CreatedAt: doc.CreatedAt,
	}
}

var _ domain.BookingRepository = (*MongoBookingRepository)(nil)
