package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v84"

	"github.com/mkohara/roastery/internal/cart"
	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

const currencyJPY = "jpy"

// PaymentIntentResult carries what the client needs to confirm the payment.
type PaymentIntentResult struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int    `json:"amount"`
	Currency        string `json:"currency"`
}

// IntentStatusResult reports where a previously created intent landed.
type IntentStatusResult struct {
	PaymentIntentID string                    `json:"payment_intent_id"`
	Status          enums.PaymentIntentStatus `json:"status"`
	ClientSecret    string                    `json:"client_secret,omitempty"`
}

// Service prices the cart and drives the payment provider.
type Service interface {
	CreatePaymentIntent(ctx context.Context, userID string) (*PaymentIntentResult, error)
	RetrieveIntent(ctx context.Context, userID, paymentIntentID string) (*IntentStatusResult, error)
}

type cartDetailReader interface {
	ItemsDetailForUser(ctx context.Context, userID string) ([]cart.ItemDetail, error)
}

type service struct {
	carts  cartDetailReader
	stripe StripePaymentClient
	logg   *logger.Logger
}

// NewService constructs the checkout service.
func NewService(carts cartDetailReader, stripeClient StripePaymentClient, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if stripeClient == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carts: carts, stripe: stripeClient, logg: logg}, nil
}

// CreatePaymentIntent totals the cart server-side and opens a payment intent
// for that amount. The intent is tagged with the user id so the webhook can
// attribute the payment without trusting the client.
func (s *service) CreatePaymentIntent(ctx context.Context, userID string) (*PaymentIntentResult, error) {
	items, err := s.carts.ItemsDetailForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart for checkout")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	amount := 0
	for _, item := range items {
		amount += item.Price * item.Quantity
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount)),
		Currency: stripe.String(currencyJPY),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("user_id", userID)

	intent, err := s.stripe.CreateIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"payment_intent_id": intent.ID,
		"amount":            amount,
	})
	s.logg.Info(logCtx, "checkout.payment_intent.created")

	return &PaymentIntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        currencyJPY,
	}, nil
}

// RetrieveIntent fetches the current provider status for an intent the user
// created earlier. Intents tagged with another user id read as not found.
func (s *service) RetrieveIntent(ctx context.Context, userID, paymentIntentID string) (*IntentStatusResult, error) {
	if paymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	intent, err := s.stripe.GetIntent(ctx, paymentIntentID, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment intent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve payment intent")
	}
	if intent.Metadata["user_id"] != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment intent not found")
	}

	return &IntentStatusResult{
		PaymentIntentID: intent.ID,
		Status:          enums.ParsePaymentIntentStatus(string(intent.Status)),
		ClientSecret:    intent.ClientSecret,
	}, nil
}
