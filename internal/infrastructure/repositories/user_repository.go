package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/leadsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                      string `gorm:"primaryKey;size:36"`
	Name                    string `gorm:"size:255"`
	Email                   string `gorm:"uniqueIndex;size:255"`
	PasswordHash            string `gorm:"column:password"`
	Role                    string `gorm:"index;size:64"`
	IsVerified              bool   `gorm:"index"`
	VerificationCode        string `gorm:"size:16"`
	VerificationCodeExpires *time.Time
	CreatedAt               time.Time `gorm:"index"`
	UpdatedAt               time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDB(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":                      user.Name,
		"email":                     user.Email,
		"password":                  user.PasswordHash,
		"role":                      user.Role,
		"is_verified":               user.IsVerified,
		"verification_code":         user.VerificationCode,
		"verification_code_expires": user.VerificationCodeExpires,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete implements domain.UserRepository. It removes the row permanently.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetVerificationCode implements domain.UserRepository
func (r *UserRepositoryImpl) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verification_code":         code,
		"verification_code_expires": expiresAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkVerified implements domain.UserRepository. The code is cleared in the same update.
func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_verified":               true,
		"verification_code":         "",
		"verification_code_expires": nil,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
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

func userFromDB(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                      dbUser.ID,
		Name:                    dbUser.Name,
		Email:                   dbUser.Email,
		PasswordHash:            dbUser.PasswordHash,
		Role:                    dbUser.Role,
		IsVerified:              dbUser.IsVerified,
		VerificationCode:        dbUser.VerificationCode,
		VerificationCodeExpires: dbUser.VerificationCodeExpires,
		CreatedAt:               dbUser.CreatedAt,
		UpdatedAt:               dbUser.UpdatedAt,
	}
}
