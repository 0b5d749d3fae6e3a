package orders

import (
	"context"
	"fmt"

	"github.com/mkohara/roastery/pkg/db/models"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// Service exposes order history reads for the calling user.
type Service interface {
	ListByUser(ctx context.Context, userID string) ([]OrderDTO, error)
}

type orderStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type service struct {
	repo orderStore
}

// NewService constructs the orders service.
func NewService(repo orderStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]OrderDTO, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toDTOs(orders), nil
}
