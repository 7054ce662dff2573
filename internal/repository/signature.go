package repository

import (
	"context"
	"errors"

	"petition/internal/models"

	"gorm.io/gorm"
)

// SignatureRepository defines persistence operations for petition signatures
// and the signer listings.
type SignatureRepository interface {
	Create(ctx context.Context, sig *models.Signature) error
	GetByID(ctx context.Context, id uint) (*models.Signature, error)
	DeleteByUserID(ctx context.Context, userID uint) error
	Count(ctx context.Context) (int64, error)
	ListSigners(ctx context.Context) ([]models.Signer, error)
	ListSignersByCity(ctx context.Context, city string) ([]models.Signer, error)
}

type signatureRepository struct {
	db *gorm.DB
}

// NewSignatureRepository returns a new SignatureRepository implementation.
func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &signatureRepository{db: db}
}

func (r *signatureRepository) Create(ctx context.Context, sig *models.Signature) error {
	if err := r.db.WithContext(ctx).Create(sig).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConstraintError("You have already signed the petition", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *signatureRepository) GetByID(ctx context.Context, id uint) (*models.Signature, error) {
	var sig models.Signature
	if err := r.db.WithContext(ctx).First(&sig, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Signature", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sig, nil
}

func (r *signatureRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Signature{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *signatureRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Signature{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *signatureRepository) ListSigners(ctx context.Context) ([]models.Signer, error) {
	var signers []models.Signer
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.first, users.last, user_profile.age, user_profile.city, user_profile.url").
		Joins("JOIN sig ON sig.user_id = users.id").
		Joins("LEFT JOIN user_profile ON user_profile.user_id = users.id").
		Scan(&signers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return signers, nil
}

func (r *signatureRepository) ListSignersByCity(ctx context.Context, city string) ([]models.Signer, error) {
	var signers []models.Signer
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.first, users.last, user_profile.age, user_profile.city, user_profile.url").
		Joins("JOIN sig ON sig.user_id = users.id").
		Joins("LEFT JOIN user_profile ON user_profile.user_id = users.id").
		Where("LOWER(user_profile.city) = LOWER(?)", city).
		Scan(&signers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return signers, nil
}
