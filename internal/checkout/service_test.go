package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stripe/stripe-go/v84"

	"github.com/mkohara/roastery/internal/cart"
	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

type stubCartReader struct {
	items []cart.ItemDetail
	err   error
}

func (s *stubCartReader) ItemsDetailForUser(ctx context.Context, userID string) ([]cart.ItemDetail, error) {
	return s.items, s.err
}

type stubStripeClient struct {
	createdParams *stripe.PaymentIntentParams
	createResult  *stripe.PaymentIntent
	createErr     error
	getResult     *stripe.PaymentIntent
	getErr        error
}

func (s *stubStripeClient) CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.createdParams = params
	return s.createResult, s.createErr
}

func (s *stubStripeClient) GetIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return s.getResult, s.getErr
}

func newCheckoutService(t *testing.T, carts cartDetailReader, client StripePaymentClient) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(carts, client, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreatePaymentIntentEmptyCart(t *testing.T) {
	svc := newCheckoutService(t, &stubCartReader{}, &stubStripeClient{})

	_, err := svc.CreatePaymentIntent(context.Background(), "user-1")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestCreatePaymentIntentTotalsServerSide(t *testing.T) {
	carts := &stubCartReader{items: []cart.ItemDetail{
		{BeanID: 1, Price: 1800, Quantity: 2},
		{BeanID: 2, Price: 2200, Quantity: 1},
	}}
	client := &stubStripeClient{createResult: &stripe.PaymentIntent{
		ID:           "pi_test_1",
		ClientSecret: "pi_test_1_secret",
	}}
	svc := newCheckoutService(t, carts, client)

	result, err := svc.CreatePaymentIntent(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Amount != 5800 || result.Currency != "jpy" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.ClientSecret != "pi_test_1_secret" {
		t.Fatalf("expected client secret passed through, got %q", result.ClientSecret)
	}

	params := client.createdParams
	if params == nil || params.Amount == nil || *params.Amount != 5800 {
		t.Fatalf("expected amount 5800 sent to provider, got %+v", params)
	}
	if params.Metadata["user_id"] != "user-1" {
		t.Fatalf("expected user id metadata, got %+v", params.Metadata)
	}
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	carts := &stubCartReader{items: []cart.ItemDetail{{BeanID: 1, Price: 1000, Quantity: 1}}}
	client := &stubStripeClient{createErr: errors.New("stripe down")}
	svc := newCheckoutService(t, carts, client)

	_, err := svc.CreatePaymentIntent(context.Background(), "user-1")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRetrieveIntentHidesForeignIntents(t *testing.T) {
	client := &stubStripeClient{getResult: &stripe.PaymentIntent{
		ID:       "pi_test_2",
		Status:   stripe.PaymentIntentStatusSucceeded,
		Metadata: map[string]string{"user_id": "someone-else"},
	}}
	svc := newCheckoutService(t, &stubCartReader{}, client)

	_, err := svc.RetrieveIntent(context.Background(), "user-1", "pi_test_2")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for a foreign intent, got %v", err)
	}
}

func TestRetrieveIntentMapsStatus(t *testing.T) {
	client := &stubStripeClient{getResult: &stripe.PaymentIntent{
		ID:           "pi_test_3",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		ClientSecret: "pi_test_3_secret",
		Metadata:     map[string]string{"user_id": "user-1"},
	}}
	svc := newCheckoutService(t, &stubCartReader{}, client)

	result, err := svc.RetrieveIntent(context.Background(), "user-1", "pi_test_3")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if result.Status != enums.PaymentIntentStatusRequiresPaymentMethod {
		t.Fatalf("unexpected status %s", result.Status)
	}
	if result.ClientSecret != "pi_test_3_secret" {
		t.Fatalf("expected client secret, got %q", result.ClientSecret)
	}
}

func TestRetrieveIntentRequiresID(t *testing.T) {
	svc := newCheckoutService(t, &stubCartReader{}, &stubStripeClient{})

	_, err := svc.RetrieveIntent(context.Background(), "user-1", "")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
