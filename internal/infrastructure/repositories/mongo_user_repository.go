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

const userCollection = "users"

type mongoUser struct {
	ID                      string     `bson:"_id"`
	Name                    string     `bson:"name"`
	Email                   string     `bson:"email"`
	PasswordHash            string     `bson:"password"`
	Role                    string     `bson:"role"`
	IsVerified              bool       `bson:"is_verified"`
	VerificationCode        string     `bson:"verification_code,omitempty"`
	VerificationCodeExpires *time.Time `bson:"verification_code_expires,omitempty"`
	CreatedAt               time.Time  `bson:"created_at"`
	UpdatedAt               time.Time  `bson:"updated_at"`
}

// MongoUserRepository implements domain.UserRepository on a MongoDB collection
type MongoUserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoUserRepository creates a user repository backed by db.users
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(userCollection), now: time.Now}
}

// EnsureIndexes creates the unique e-mail index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create implements domain.UserRepository
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, userToMongo(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID implements domain.UserRepository
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userFromMongo(&doc), nil
}

// Update implements domain.UserRepository
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	set := bson.M{
		"name":        user.Name,
		"email":       user.Email,
		"password":    user.PasswordHash,
		"role":        user.Role,
		"is_verified": user.IsVerified,
		"updated_at":  r.now().UTC(),
	}
	update := bson.M{"$set": set}
	if user.VerificationCode == "" || user.VerificationCodeExpires == nil {
		update["$unset"] = bson.M{"verification_code": "", "verification_code_expires": ""}
	} else {
		set["verification_code"] = user.VerificationCode
		set["verification_code_expires"] = *user.VerificationCodeExpires
	}
	return r.updateByID(ctx, user.ID, update)
}

// Delete implements domain.UserRepository
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetVerificationCode implements domain.UserRepository
func (r *MongoUserRepository) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"verification_code":         code,
		"verification_code_expires": expiresAt,
		"updated_at":                r.now().UTC(),
	}})
}

// MarkVerified implements domain.UserRepository
func (r *MongoUserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"is_verified": true, "updated_at": r.now().UTC()},
		"$unset": bson.M{"verification_code": "", "verification_code_expires": ""},
	})
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userToMongo(user *domain.User) *mongoUser {
	return &mongoUser{
		ID:                      user.ID,
		Name:                    user.Name,
		Email:                   user.Email,
		PasswordHash:            user.PasswordHash,
		Role:                    user.Role,
		IsVerified:              user.IsVerified,
		VerificationCode:        user.VerificationCode,
		VerificationCodeExpires: user.VerificationCodeExpires,
		CreatedAt:               user.CreatedAt,
		UpdatedAt:               user.UpdatedAt,
	}
}

func userFromMongo(doc *mongoUser) *domain.User {
	return &domain.User{
		ID:                      doc.ID,
		Name:                    doc.Name,
		Email:                   doc.Email,
		PasswordHash:            doc.PasswordHash,
		Role:                    doc.Role,
		IsVerified:              doc.IsVerified,
		VerificationCode:        doc.VerificationCode,
		VerificationCodeExpires: doc.VerificationCodeExpires,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}
}

var _ domain.UserRepository = (*MongoUserRepository)(nil)
