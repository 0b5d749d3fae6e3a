package enums

// PaymentIntentStatus is the closed set of provider statuses the storefront
// acts on. Anything the provider reports outside this set parses to
// PaymentIntentStatusUnknown so callers branch through an explicit default arm
// instead of falling through silently.
type PaymentIntentStatus string

const (
	PaymentIntentStatusSucceeded             PaymentIntentStatus = "succeeded"
	PaymentIntentStatusProcessing            PaymentIntentStatus = "processing"
	PaymentIntentStatusRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusUnknown               PaymentIntentStatus = "unknown"
)

var knownPaymentIntentStatuses = []PaymentIntentStatus{
	PaymentIntentStatusSucceeded,
	PaymentIntentStatusProcessing,
	PaymentIntentStatusRequiresPaymentMethod,
}

// String implements fmt.Stringer.
func (p PaymentIntentStatus) String() string {
	return string(p)
}

// IsTerminal reports whether the status ends the payment attempt.
func (p PaymentIntentStatus) IsTerminal() bool {
	return p == PaymentIntentStatusSucceeded || p == PaymentIntentStatusRequiresPaymentMethod
}

// ParsePaymentIntentStatus maps raw provider input into the closed set,
// collapsing unrecognized values to PaymentIntentStatusUnknown.
func ParsePaymentIntentStatus(value string) PaymentIntentStatus {
	for _, candidate := range knownPaymentIntentStatuses {
		if string(candidate) == value {
			return candidate
		}
	}
	return PaymentIntentStatusUnknown
}
