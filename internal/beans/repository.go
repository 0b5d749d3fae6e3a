package beans

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkohara/roastery/internal/repo"
	"github.com/mkohara/roastery/pkg/db/models"
)

// Repository persists catalog listings.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns the whole catalog, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Bean, error) {
	var beans []models.Bean
	if err := r.DB(ctx).Order("id DESC").Find(&beans).Error; err != nil {
		return nil, err
	}
	return beans, nil
}

// ListByUser returns the catalog entries owned by the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Bean, error) {
	var beans []models.Bean
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&beans).Error; err != nil {
		return nil, err
	}
	return beans, nil
}

// FindByID loads a single listing.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Bean, error) {
	var bean models.Bean
	if err := r.DB(ctx).First(&bean, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bean, nil
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, bean *models.Bean) (*models.Bean, error) {
	if err := r.DB(ctx).Create(bean).Error; err != nil {
		return nil, err
	}
	return bean, nil
}

// Update rewrites a listing owned by userID. Ownership rides in the WHERE
// clause so a foreign id and a missing id are indistinguishable.
func (r *Repository) Update(ctx context.Context, id int, userID string, bean *models.Bean) (*models.Bean, error) {
	res := r.DB(ctx).Model(&models.Bean{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"name":          bean.Name,
			"origin":        bean.Origin,
			"price":         bean.Price,
			"process":       bean.Process,
			"roast_profile": bean.RoastProfile,
			"flavor_notes":  bean.FlavorNotes,
			"description":   bean.Description,
			"image_url":     bean.ImageURL,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a listing owned by userID.
func (r *Repository) Delete(ctx context.Context, id int, userID string) error {
	res := r.DB(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Bean{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
