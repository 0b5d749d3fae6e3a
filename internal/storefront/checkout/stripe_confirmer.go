package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	pkgstripe "github.com/mkohara/roastery/pkg/stripe"
)

// StripeConfirmer confirms and inspects payment intents directly against
// Stripe. Headless callers (the smoke CLI, integration runs) use it where a
// browser would hand the client secret to Stripe's own widget.
type StripeConfirmer struct{}

// NewStripeConfirmer builds a confirmer over the initialized Stripe client.
func NewStripeConfirmer(api *pkgstripe.Client) *StripeConfirmer {
	if api == nil {
		return nil
	}
	return &StripeConfirmer{}
}

// Confirm submits the payment method against the intent the secret belongs
// to. Declines come back as ConfirmError so the orchestrator can pick the
// message.
func (c *StripeConfirmer) Confirm(ctx context.Context, clientSecret string, req ConfirmRequest) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "payment confirmer not configured")
	}
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return err
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(req.PaymentMethodID),
	}
	params.Context = ctx
	if req.ReturnURL != "" {
		params.ReturnURL = stripe.String(req.ReturnURL)
	}
	if req.ShippingName != "" {
		params.Shipping = &stripe.ShippingDetailsParams{
			Name: stripe.String(req.ShippingName),
			Address: &stripe.AddressParams{
				PostalCode: stripe.String(req.PostalCode),
				Line1:      stripe.String(req.Address),
				Country:    stripe.String("JP"),
			},
		}
	}

	if _, err := paymentintent.Confirm(intentID, params); err != nil {
		return classifyStripeError(err)
	}
	return nil
}

// Retrieve reads the intent's status by its client secret.
func (c *StripeConfirmer) Retrieve(ctx context.Context, clientSecret string) (enums.PaymentIntentStatus, error) {
	if c == nil {
		return enums.PaymentIntentStatusUnknown, pkgerrors.New(pkgerrors.CodeDependency, "payment confirmer not configured")
	}
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return enums.PaymentIntentStatusUnknown, err
	}

	params := &stripe.PaymentIntentParams{
		ClientSecret: stripe.String(clientSecret),
	}
	params.Context = ctx
	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return enums.PaymentIntentStatusUnknown, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to retrieve payment intent")
	}
	return enums.ParsePaymentIntentStatus(string(pi.Status)), nil
}

// intentIDFromSecret recovers the intent id from a pi_..._secret_... value.
func intentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "malformed client secret")
	}
	return id, nil
}

func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return &ConfirmError{Kind: ConfirmErrorOther, Message: err.Error()}
	}
	switch stripeErr.Type {
	case stripe.ErrorTypeCard:
		return &ConfirmError{Kind: ConfirmErrorCard, Message: stripeErr.Msg}
	case stripe.ErrorTypeInvalidRequest:
		return &ConfirmError{Kind: ConfirmErrorValidation, Message: stripeErr.Msg}
	default:
		return &ConfirmError{Kind: ConfirmErrorOther, Message: stripeErr.Msg}
	}
}
