package repository

import (
	"context"
	"errors"

	"petition/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines persistence operations for user profiles.
//
// Both writes take an includeAge flag because the age form field is
// optional: when the user leaves it blank the column is omitted from the
// statement entirely. On the upsert path this preserves any previously
// stored age; on the plain insert path the fresh row simply has no age.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile, includeAge bool) error
	Upsert(ctx context.Context, profile *models.Profile, includeAge bool) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile, includeAge bool) error {
	tx := r.db.WithContext(ctx)
	if !includeAge {
		tx = tx.Omit("age")
	}
	if err := tx.Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConstraintError("Profile already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile, includeAge bool) error {
	assignments := map[string]interface{}{
		"city": profile.City,
		"url":  profile.URL,
	}
	if includeAge {
		assignments["age"] = profile.Age
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	})
	if !includeAge {
		tx = tx.Omit("age")
	}
	if err := tx.Create(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
