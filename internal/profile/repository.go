package profile

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkohara/roastery/internal/repo"
	"github.com/mkohara/roastery/pkg/db/models"
)

// Repository persists user profiles keyed by user id.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByUserID returns the profile for the user.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := r.DB(ctx).First(&prof, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

// Upsert writes the profile, replacing any previous row for the user.
func (r *Repository) Upsert(ctx context.Context, prof *models.Profile) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "icon_url", "post_code", "address", "about_me", "updated_at",
		}),
	}).Create(prof).Error
}
