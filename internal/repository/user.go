// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"petition/internal/models"

	"gorm.io/gorm"
)

// CredentialRow is the single-round-trip login projection: the user record
// left-joined with the signature table so an existing signature is detected
// without a second query.
type CredentialRow struct {
	ID          uint
	First       string
	Last        string
	Email       string
	Password    string
	SignatureID *uint `gorm:"column:signature_id"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetWithProfile(ctx context.Context, id uint) (*models.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*CredentialRow, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateWithoutPassword(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetWithProfile(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetCredentialsByEmail(ctx context.Context, email string) (*CredentialRow, error) {
	var row CredentialRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.first, users.last, users.email, users.password, sig.id AS signature_id").
		Joins("LEFT JOIN sig ON sig.user_id = users.id").
		Where("users.email = ?", email).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &row, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConstraintError("A user with that email already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"first":    user.First,
			"last":     user.Last,
			"email":    user.Email,
			"password": user.Password,
		}).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConstraintError("A user with that email already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateWithoutPassword(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"first": user.First,
			"last":  user.Last,
			"email": user.Email,
		}).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConstraintError("A user with that email already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
