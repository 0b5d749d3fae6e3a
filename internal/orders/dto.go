package orders

import (
	"time"

	"github.com/mkohara/roastery/pkg/db/models"
)

// OrderDTO is the API shape of a past order.
type OrderDTO struct {
	ID                    int            `json:"id"`
	Status                string         `json:"status"`
	TotalAmount           int            `json:"total_amount"`
	Currency              string         `json:"currency"`
	PaymentMethodType     string         `json:"payment_method_type,omitempty"`
	StripePaymentIntentID string         `json:"stripe_payment_intent_id"`
	Items                 []OrderItemDTO `json:"items"`
	CreatedAt             time.Time      `json:"created_at"`
}

// OrderItemDTO is one frozen line of a past order.
type OrderItemDTO struct {
	ID              int `json:"id"`
	BeanID          int `json:"bean_id"`
	PriceAtPurchase int `json:"price_at_purchase"`
	Quantity        int `json:"quantity"`
}

func toDTO(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:              item.ID,
			BeanID:          item.BeanID,
			PriceAtPurchase: item.PriceAtPurchase,
			Quantity:        item.Quantity,
		})
	}
	return OrderDTO{
		ID:                    order.ID,
		Status:                order.Status.String(),
		TotalAmount:           order.TotalAmount,
		Currency:              order.Currency,
		PaymentMethodType:     order.PaymentMethodType,
		StripePaymentIntentID: order.StripePaymentIntentID,
		Items:                 items,
		CreatedAt:             order.CreatedAt,
	}
}

func toDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out
}
