package models

import "time"

// Profile holds the buyer-facing profile keyed by the auth provider's user id.
type Profile struct {
	UserID           string    `gorm:"column:user_id;primaryKey"`
	DisplayName      string    `gorm:"column:display_name;not null"`
	IconURL          string    `gorm:"column:icon_url"`
	PostCode         string    `gorm:"column:post_code"`
	Address          string    `gorm:"column:address"`
	AboutMe          string    `gorm:"column:about_me"`
	StripeCustomerID *string   `gorm:"column:stripe_customer_id"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
