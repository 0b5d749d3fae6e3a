package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem ties a bean to a cart with the desired quantity. A bean appears
// at most once per cart; repeated adds bump the quantity instead.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_bean"`
	BeanID    int       `gorm:"column:bean_id;not null;uniqueIndex:idx_cart_items_cart_bean"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
