package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/mkohara/roastery/pkg/enums"
)

// Bean represents a roaster's coffee bean listing.
type Bean struct {
	ID           int                `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string             `gorm:"column:name;not null"`
	Origin       string             `gorm:"column:origin;not null"`
	Price        int                `gorm:"column:price;not null"`
	Process      enums.BeanProcess  `gorm:"column:process;not null"`
	RoastProfile enums.RoastProfile `gorm:"column:roast_profile;not null"`
	FlavorNotes  pq.StringArray     `gorm:"column:flavor_notes;type:text[]"`
	Description  *string            `gorm:"column:description"`
	ImageURL     *string            `gorm:"column:image_url"`
	UserID       string             `gorm:"column:user_id;not null;index"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
