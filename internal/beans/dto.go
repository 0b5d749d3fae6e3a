package beans

import (
	"time"

	"github.com/mkohara/roastery/pkg/db/models"
)

// BeanDTO is the wire representation of a catalog listing.
type BeanDTO struct {
	ID           int       `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Origin       string    `json:"origin"`
	Price        int       `json:"price"`
	Process      string    `json:"process"`
	RoastProfile string    `json:"roast_profile"`
	FlavorNotes  []string  `json:"flavor_notes,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	UserID       string    `json:"user_id"`
}

func toDTO(bean *models.Bean) *BeanDTO {
	if bean == nil {
		return nil
	}
	return &BeanDTO{
		ID:           bean.ID,
		CreatedAt:    bean.CreatedAt,
		UpdatedAt:    bean.UpdatedAt,
		Name:         bean.Name,
		Origin:       bean.Origin,
		Price:        bean.Price,
		Process:      bean.Process.String(),
		RoastProfile: bean.RoastProfile.String(),
		FlavorNotes:  bean.FlavorNotes,
		Description:  bean.Description,
		ImageURL:     bean.ImageURL,
		UserID:       bean.UserID,
	}
}

func toDTOs(beans []models.Bean) []BeanDTO {
	out := make([]BeanDTO, 0, len(beans))
	for i := range beans {
		out = append(out, *toDTO(&beans[i]))
	}
	return out
}
