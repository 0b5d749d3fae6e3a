package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/mkohara/roastery/internal/cart"
	"github.com/mkohara/roastery/pkg/db"
	"github.com/mkohara/roastery/pkg/db/models"
	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

type cartRepository interface {
	ItemsDetailForUser(ctx context.Context, userID string) ([]cart.ItemDetail, error)
	ClearForUserWithTx(tx *gorm.DB, userID string) error
}

type orderRepository interface {
	CreateWithTx(tx *gorm.DB, order *models.Order) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	CartRepo          cartRepository
	OrderRepo         orderRepository
	TransactionRunner txRunner
}

// Service turns payment intent events into persisted orders.
type Service struct {
	cartRepo  cartRepository
	orderRepo orderRepository
	txRunner  txRunner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		cartRepo:  params.CartRepo,
		orderRepo: params.OrderRepo,
		txRunner:  params.TransactionRunner,
	}, nil
}

// HandleEvent processes a verified Stripe event. Event types outside the
// payment intent lifecycle are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.recordSucceededPayment(ctx, intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.recordFailedPayment(ctx, intent)
	default:
		return nil
	}
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}
	if intent.Metadata["user_id"] == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent missing user metadata")
	}
	return &intent, nil
}

// recordSucceededPayment snapshots the user's cart into an order and clears
// the cart, all inside one transaction. Prices come from the cart join at the
// moment the webhook lands, so later bean edits leave the order untouched.
func (s *Service) recordSucceededPayment(ctx context.Context, intent *stripe.PaymentIntent) error {
	userID := intent.Metadata["user_id"]

	items, err := s.cartRepo.ItemsDetailForUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart for order")
	}
	if len(items) == 0 {
		// An earlier delivery already consumed the cart.
		return nil
	}

	total := 0
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		total += item.Price * item.Quantity
		lines = append(lines, models.OrderItem{
			BeanID:          item.BeanID,
			PriceAtPurchase: item.Price,
			Quantity:        item.Quantity,
		})
	}

	order := &models.Order{
		UserID:                userID,
		Status:                enums.OrderStatusSucceeded,
		TotalAmount:           total,
		Currency:              currencyOrDefault(intent),
		PaymentMethodType:     paymentMethodType(intent),
		StripePaymentIntentID: intent.ID,
		Items:                 lines,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.CreateWithTx(tx, order); err != nil {
			return err
		}
		return s.cartRepo.ClearForUserWithTx(tx, userID)
	})
	if db.IsUniqueViolation(err, "") {
		// Duplicate delivery raced past the Redis guard. The order exists.
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	return nil
}

// recordFailedPayment keeps a failed attempt on record without touching the
// cart, so the user can retry with the same items.
func (s *Service) recordFailedPayment(ctx context.Context, intent *stripe.PaymentIntent) error {
	order := &models.Order{
		UserID:                intent.Metadata["user_id"],
		Status:                enums.OrderStatusFailed,
		TotalAmount:           int(intent.Amount),
		Currency:              currencyOrDefault(intent),
		PaymentMethodType:     paymentMethodType(intent),
		StripePaymentIntentID: intent.ID,
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.CreateWithTx(tx, order)
	})
	if db.IsUniqueViolation(err, "") {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist failed order")
	}
	return nil
}

func currencyOrDefault(intent *stripe.PaymentIntent) string {
	if intent.Currency != "" {
		return string(intent.Currency)
	}
	return "jpy"
}

func paymentMethodType(intent *stripe.PaymentIntent) string {
	if len(intent.PaymentMethodTypes) > 0 {
		return intent.PaymentMethodTypes[0]
	}
	return ""
}
