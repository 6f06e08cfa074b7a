package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/you/leadsvc/domain"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

func TestMongoUserRepository_Create(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := newTestUser("jane@example.com")
		require.NoError(t, repo.Create(context.Background(), user))
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse())

		err := repo.Create(context.Background(), newTestUser("jane@example.com"))
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestMongoUserRepository_FindByEmail(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + userCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "user-1"},
			{Key: "name", Value: "Jane Doe"},
			{Key: "email", Value: "jane@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: domain.RoleUser},
			{Key: "is_verified", Value: true},
		}))

		user, err := repo.FindByEmail(context.Background(), "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "Jane Doe", user.Name)
		assert.True(t, user.IsVerified)
		assert.Nil(t, user.VerificationCodeExpires)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + userCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMongoUserRepository_Updates(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("mark verified", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(t, repo.MarkVerified(context.Background(), "user-1"))
	})

	mt.Run("set code on missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SetVerificationCode(context.Background(), "missing", "123456", time.Now())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	mt.Run("delete missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), domain.ErrUserNotFound)
	})
}

func TestMongoBookingRepository(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoBookingRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse())

		err := repo.Create(context.Background(), newTestBooking("SHREEAI-1", "2025-03-01", time.Now()))
		assert.ErrorIs(t, err, domain.ErrBookingExists)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoBookingRepository(mt.DB)
		ns := mt.DB.Name() + "." + bookingCollection
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "SHREEAI-2"},
			{Key: "date", Value: "2025-03-08"},
			{Key: "services", Value: bson.A{"Data Analytics"}},
		})
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch, bson.D{
			{Key: "_id", Value: "SHREEAI-1"},
			{Key: "date", Value: "2025-03-01"},
			{Key: "services", Value: bson.A{"Predictive AI", "Chatbots"}},
		})
		mt.AddMockResponses(first, second)

		bookings, err := repo.List(context.Background(), domain.BookingFilter{From: "2025-03-01"})
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, "SHREEAI-2", bookings[0].BookingID)
		assert.Equal(t, []string{"Predictive AI", "Chatbots"}, bookings[1].Services)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewMongoBookingRepository(mt.DB)
		ns := mt.DB.Name() + "." + bookingCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), "SHREEAI-0")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}
