package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// Service exposes cart operations scoped to the calling user.
type Service interface {
	Items(ctx context.Context, userID string) ([]ItemDetail, error)
	AddItem(ctx context.Context, userID string, beanID, quantity int) (*CartItemDTO, error)
	UpdateItemQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartItemDTO, error)
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error
}

type cartStore interface {
	FindOrCreateCart(ctx context.Context, userID string) (*models.Cart, error)
	UpsertItem(ctx context.Context, cartID uuid.UUID, beanID, quantity int) (*models.CartItem, error)
	ItemsDetailForUser(ctx context.Context, userID string) ([]ItemDetail, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, userID string, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID, userID string) error
}

type beanReader interface {
	FindByID(ctx context.Context, id int) (*models.Bean, error)
}

type service struct {
	repo  cartStore
	beans beanReader
}

// NewService constructs the cart service.
func NewService(repo cartStore, beans beanReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if beans == nil {
		return nil, fmt.Errorf("bean reader required")
	}
	return &service{repo: repo, beans: beans}, nil
}

func (s *service) Items(ctx context.Context, userID string) ([]ItemDetail, error) {
	items, err := s.repo.ItemsDetailForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
	}
	return items, nil
}

func (s *service) AddItem(ctx context.Context, userID string, beanID, quantity int) (*CartItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.beans.FindByID(ctx, beanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bean not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify bean")
	}

	cart, err := s.repo.FindOrCreateCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart")
	}
	item, err := s.repo.UpsertItem(ctx, cart.ID, beanID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	return toItemDTO(item), nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	item, err := s.repo.UpdateItemQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return toItemDTO(item), nil
}

func (s *service) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return nil
}
