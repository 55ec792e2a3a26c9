package enums

import "fmt"

// PaymentIntentStatus tracks a card payment between initiation and the
// gateway callback that settles it.
type PaymentIntentStatus string

const (
	PaymentIntentStatusPending   PaymentIntentStatus = "pending"
	PaymentIntentStatusRedirect  PaymentIntentStatus = "redirect"
	PaymentIntentStatusSubmitted PaymentIntentStatus = "submitted"
	PaymentIntentStatusFailed    PaymentIntentStatus = "failed"
)

var validPaymentIntentStatuses = []PaymentIntentStatus{
	PaymentIntentStatusPending,
	PaymentIntentStatusRedirect,
	PaymentIntentStatusSubmitted,
	PaymentIntentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentIntentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentIntentStatus.
func (p PaymentIntentStatus) IsValid() bool {
	for _, candidate := range validPaymentIntentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsFinal reports whether the intent can no longer change.
func (p PaymentIntentStatus) IsFinal() bool {
	return p == PaymentIntentStatusSubmitted || p == PaymentIntentStatusFailed
}

// ParsePaymentIntentStatus converts raw input into a PaymentIntentStatus.
func ParsePaymentIntentStatus(value string) (PaymentIntentStatus, error) {
	for _, candidate := range validPaymentIntentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment intent status %q", value)
}
