package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/mkohara/roastery/internal/storefront"
	"github.com/mkohara/roastery/internal/storefront/session"
	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// State is where the checkout flow currently stands. The page renders off it
// directly.
type State string

const (
	StateIdle          State = "idle"
	StateLoadingCart   State = "loading_cart"
	StateLoadingIntent State = "loading_intent"
	StateReady         State = "ready"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
	StateProcessing    State = "processing"
	StateRetryPayment  State = "requires_payment_method"
	StateFailed        State = "failed"
	StateEmptyCart     State = "empty_cart"
	StateError         State = "error"
)

const genericDeclineMessage = "payment was not completed, please try another card"

// ConfirmRequest carries what the payment form collected for confirmation.
type ConfirmRequest struct {
	PaymentMethodID string
	ReturnURL       string
	ShippingName    string
	PostalCode      string
	Address         string
}

// ConfirmErrorKind classifies confirmation failures for message selection.
type ConfirmErrorKind string

const (
	ConfirmErrorCard       ConfirmErrorKind = "card_error"
	ConfirmErrorValidation ConfirmErrorKind = "validation_error"
	ConfirmErrorOther      ConfirmErrorKind = "other"
)

// ConfirmError is a confirmation failure with the provider's classification.
// Card and validation errors carry a message safe to show the customer.
type ConfirmError struct {
	Kind    ConfirmErrorKind
	Message string
}

func (e *ConfirmError) Error() string {
	return e.Message
}

// PaymentConfirmer talks to the payment provider from the customer's side of
// the flow.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, clientSecret string, req ConfirmRequest) error
	Retrieve(ctx context.Context, clientSecret string) (enums.PaymentIntentStatus, error)
}

// apiClient is the slice of the REST client the orchestrator needs.
type apiClient interface {
	FetchCart(ctx context.Context) ([]storefront.CartLine, error)
	CreatePaymentIntent(ctx context.Context) (string, error)
}

// sessionSource yields the current auth context.
type sessionSource interface {
	Current() session.Session
}

// Orchestrator drives the checkout page. Start walks idle through loading the
// cart and opening an intent to ready; Submit confirms the payment; Resume
// classifies a redirect return. All three leave the observable state and
// message behind for the page to render.
type Orchestrator struct {
	client    apiClient
	sessions  sessionSource
	confirmer PaymentConfirmer

	mu           sync.Mutex
	state        State
	message      string
	items        []storefront.CartLine
	total        int
	clientSecret string
}

// NewOrchestrator builds an orchestrator in the idle state.
func NewOrchestrator(client apiClient, sessions sessionSource, confirmer PaymentConfirmer) *Orchestrator {
	return &Orchestrator{
		client:    client,
		sessions:  sessions,
		confirmer: confirmer,
		state:     StateIdle,
	}
}

// State returns the current flow state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Message returns the customer-facing message for the current state, if any.
func (o *Orchestrator) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.message
}

// Items returns the cart lines loaded for this checkout.
func (o *Orchestrator) Items() []storefront.CartLine {
	o.mu.Lock()
	defer o.mu.Unlock()
	items := make([]storefront.CartLine, len(o.items))
	copy(items, o.items)
	return items
}

// Total returns the order total loaded for this checkout.
func (o *Orchestrator) Total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total
}

// ClientSecret returns the intent secret once the flow reached ready.
func (o *Orchestrator) ClientSecret() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clientSecret
}

func (o *Orchestrator) set(state State, message string) {
	o.mu.Lock()
	o.state = state
	o.message = message
	o.mu.Unlock()
}

// Start loads the cart and opens a payment intent. An unauthenticated session
// keeps the flow idle. An empty cart is its own state and never opens an
// intent.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.sessions.Current().Authenticated() {
		o.set(StateIdle, "")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}

	o.set(StateLoadingCart, "")
	lines, err := o.client.FetchCart(ctx)
	if err != nil {
		o.set(StateError, "failed to load your cart")
		return err
	}
	if len(lines) == 0 {
		o.set(StateEmptyCart, "your cart is empty")
		return nil
	}

	total := 0
	for _, line := range lines {
		total += line.Price * line.Quantity
	}
	o.mu.Lock()
	o.items = lines
	o.total = total
	o.mu.Unlock()

	o.set(StateLoadingIntent, "")
	secret, err := o.client.CreatePaymentIntent(ctx)
	if err != nil {
		o.set(StateError, "failed to start the payment")
		return err
	}
	if secret == "" {
		err := pkgerrors.New(pkgerrors.CodeDependency, "payment intent carried no client secret")
		o.set(StateError, "failed to start the payment")
		return err
	}

	o.mu.Lock()
	o.clientSecret = secret
	o.state = StateReady
	o.message = ""
	o.mu.Unlock()
	return nil
}

// Submit confirms the payment. Card and validation declines surface the
// provider's own message and leave the form resubmittable; anything else gets
// a generic message, also resubmittable.
func (o *Orchestrator) Submit(ctx context.Context, req ConfirmRequest) error {
	o.mu.Lock()
	switch o.state {
	case StateReady, StateRetryPayment, StateFailed:
	default:
		state := o.state
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout is not ready to submit from state "+string(state))
	}
	secret := o.clientSecret
	o.state = StateSubmitting
	o.message = ""
	o.mu.Unlock()

	if secret == "" {
		o.set(StateError, "failed to start the payment")
		return pkgerrors.New(pkgerrors.CodeInternal, "no client secret to confirm")
	}

	if err := o.confirmer.Confirm(ctx, secret, req); err != nil {
		var confirmErr *ConfirmError
		if errors.As(err, &confirmErr) {
			switch confirmErr.Kind {
			case ConfirmErrorCard, ConfirmErrorValidation:
				o.set(StateRetryPayment, confirmErr.Message)
			default:
				o.set(StateFailed, genericDeclineMessage)
			}
		} else {
			o.set(StateFailed, genericDeclineMessage)
		}
		return err
	}

	o.set(StateSucceeded, "payment complete")
	return nil
}

// OutcomeKind is what the return page should do after a redirect back from
// the provider.
type OutcomeKind string

const (
	OutcomeRedirectHome          OutcomeKind = "redirect_home"
	OutcomeSucceeded             OutcomeKind = "succeeded"
	OutcomeProcessing            OutcomeKind = "processing"
	OutcomeRequiresPaymentMethod OutcomeKind = "requires_payment_method"
	OutcomeSupport               OutcomeKind = "support"
)

// Outcome is the resumption verdict with its customer-facing message.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Resume classifies a redirect return by the intent's current status. An
// empty secret means the visitor landed here without a payment in flight, so
// they go home. Processing renders as-is with no automatic re-poll; the
// customer refreshes when they want a newer answer.
func (o *Orchestrator) Resume(ctx context.Context, clientSecret string) (Outcome, error) {
	if clientSecret == "" {
		return Outcome{Kind: OutcomeRedirectHome}, nil
	}

	status, err := o.confirmer.Retrieve(ctx, clientSecret)
	if err != nil {
		return Outcome{
			Kind:    OutcomeSupport,
			Message: "we could not verify your payment, please contact support",
		}, err
	}

	switch status {
	case enums.PaymentIntentStatusSucceeded:
		return Outcome{Kind: OutcomeSucceeded, Message: "thank you, your payment succeeded"}, nil
	case enums.PaymentIntentStatusProcessing:
		return Outcome{Kind: OutcomeProcessing, Message: "your payment is processing"}, nil
	case enums.PaymentIntentStatusRequiresPaymentMethod:
		return Outcome{
			Kind:    OutcomeRequiresPaymentMethod,
			Message: "your payment was not completed, return to your cart to try again",
		}, nil
	default:
		return Outcome{
			Kind:    OutcomeSupport,
			Message: "we could not verify your payment, please contact support",
		}, nil
	}
}
