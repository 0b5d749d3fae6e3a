package cart

import (
	"github.com/google/uuid"

	"github.com/mkohara/roastery/pkg/db/models"
)

// CartItemDTO is the API shape of one cart line.
type CartItemDTO struct {
	ID       uuid.UUID `json:"id"`
	CartID   uuid.UUID `json:"cart_id"`
	BeanID   int       `json:"bean_id"`
	Quantity int       `json:"quantity"`
}

func toItemDTO(item *models.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	return &CartItemDTO{
		ID:       item.ID,
		CartID:   item.CartID,
		BeanID:   item.BeanID,
		Quantity: item.Quantity,
	}
}
