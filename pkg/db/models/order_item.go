package models

// OrderItem snapshots one cart line at the moment the payment succeeded.
// PriceAtPurchase is frozen so later bean edits cannot rewrite history.
type OrderItem struct {
	ID              int `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         int `gorm:"column:order_id;not null;index"`
	BeanID          int `gorm:"column:bean_id;not null"`
	PriceAtPurchase int `gorm:"column:price_at_purchase;not null"`
	Quantity        int `gorm:"column:quantity;not null"`
}
