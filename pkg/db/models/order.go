package models

import (
	"time"

	"github.com/mkohara/roastery/pkg/enums"
)

// Order records a completed (or failed) checkout. Amounts are integer JPY.
type Order struct {
	ID                    int               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID                string            `gorm:"column:user_id;not null;index"`
	Status                enums.OrderStatus `gorm:"column:status;not null"`
	TotalAmount           int               `gorm:"column:total_amount;not null"`
	Currency              string            `gorm:"column:currency;not null;default:'jpy'"`
	PaymentMethodType     string            `gorm:"column:payment_method_type"`
	StripePaymentIntentID string            `gorm:"column:stripe_payment_intent_id;not null;uniqueIndex"`
	Items                 []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
