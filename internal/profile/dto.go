package profile

import (
	"time"

	"github.com/mkohara/roastery/pkg/db/models"
)

// ProfileDTO is the API shape of a buyer profile.
type ProfileDTO struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	IconURL     string    `json:"icon_url,omitempty"`
	PostCode    string    `json:"post_code,omitempty"`
	Address     string    `json:"address,omitempty"`
	AboutMe     string    `json:"about_me,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(prof *models.Profile) *ProfileDTO {
	if prof == nil {
		return nil
	}
	return &ProfileDTO{
		UserID:      prof.UserID,
		DisplayName: prof.DisplayName,
		IconURL:     prof.IconURL,
		PostCode:    prof.PostCode,
		Address:     prof.Address,
		AboutMe:     prof.AboutMe,
		CreatedAt:   prof.CreatedAt,
		UpdatedAt:   prof.UpdatedAt,
	}
}
