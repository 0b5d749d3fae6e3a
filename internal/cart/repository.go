package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkohara/roastery/internal/repo"
	"github.com/mkohara/roastery/pkg/db/models"
)

// ItemDetail is one cart line joined with its bean.
type ItemDetail struct {
	ID           uuid.UUID `json:"id"`
	BeanID       int       `json:"bean_id"`
	Name         string    `json:"name"`
	Price        int       `json:"price"`
	Quantity     int       `json:"quantity"`
	Process      string    `json:"process"`
	RoastProfile string    `json:"roast_profile"`
}

// Repository persists carts and their lines.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindOrCreateCart returns the user's cart, creating it on first touch.
func (r *Repository) FindOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{ID: uuid.New(), UserID: userID}
	if err := r.DB(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem adds the bean to the cart or bumps its quantity when present.
func (r *Repository) UpsertItem(ctx context.Context, cartID uuid.UUID, beanID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB(ctx).Where("cart_id = ? AND bean_id = ?", cartID, beanID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{ID: uuid.New(), CartID: cartID, BeanID: beanID, Quantity: quantity}
		if err := r.DB(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case err != nil:
		return nil, err
	default:
		item.Quantity += quantity
		if err := r.DB(ctx).Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Update("quantity", item.Quantity).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
}

// ItemsDetailForUser returns the user's cart lines joined with bean data,
// newest line first. A missing cart reads as an empty slice.
func (r *Repository) ItemsDetailForUser(ctx context.Context, userID string) ([]ItemDetail, error) {
	items := []ItemDetail{}
	err := r.DB(ctx).
		Table("cart_items ci").
		Select("ci.id, ci.bean_id, b.name, b.price, ci.quantity, b.process, b.roast_profile").
		Joins("JOIN beans b ON ci.bean_id = b.id").
		Joins("JOIN carts c ON ci.cart_id = c.id").
		Where("c.user_id = ?", userID).
		Order("ci.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemQuantity sets the quantity on a line the user owns. Ownership
// rides in the WHERE clause via the carts subquery.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, userID string, quantity int) (*models.CartItem, error) {
	res := r.DB(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id IN (?)", itemID,
			r.DB(ctx).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var item models.CartItem
	if err := r.DB(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a line the user owns.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID, userID string) error {
	res := r.DB(ctx).
		Where("id = ? AND cart_id IN (?)", itemID,
			r.DB(ctx).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearForUserWithTx clears the user's cart inside the provided transaction.
func (r *Repository) ClearForUserWithTx(tx *gorm.DB, userID string) error {
	return r.WithTx(tx).ClearForUser(context.Background(), userID)
}

// ClearForUser drops every line in the user's cart. A missing cart is a no-op.
func (r *Repository) ClearForUser(ctx context.Context, userID string) error {
	var cart models.Cart
	err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.DB(ctx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
