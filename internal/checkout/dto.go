package checkout

import (
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// SubmitInput is the checkout payload. Card fields are consumed from
// this request only and never stored.
type SubmitInput struct {
	CustomerName  string              `json:"customer_name" validate:"required,min=2"`
	Phone         string              `json:"phone" validate:"required,min=7"`
	Email         string              `json:"email" validate:"required,email"`
	Address       string              `json:"address" validate:"required,min=5"`
	City          string              `json:"city" validate:"required"`
	District      *string             `json:"district"`
	Note          *string             `json:"note"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	CardProvider  *string             `json:"card_provider"`
	Card          payments.CardFields `json:"card"`
	ReceiptURL    *string             `json:"receipt_file_url"`
}

// SubmissionStatus tells the storefront what to do next.
type SubmissionStatus string

const (
	// SubmissionAccepted means the order exists, show the order code.
	SubmissionAccepted SubmissionStatus = "accepted"
	// SubmissionRedirect means the shopper must complete a card
	// challenge before an order exists.
	SubmissionRedirect SubmissionStatus = "redirect"
)

// Submission is the result of a checkout attempt.
type Submission struct {
	Status        SubmissionStatus    `json:"status"`
	OrderCode     *string             `json:"order_code,omitempty"`
	IntentID      *uuid.UUID          `json:"intent_id,omitempty"`
	RedirectKind  *enums.RedirectKind `json:"redirect_kind,omitempty"`
	RedirectValue *string             `json:"redirect_value,omitempty"`
}

// IntentView is the client poll contract for a card payment in flight.
type IntentView struct {
	ID             uuid.UUID                 `json:"id"`
	Status         enums.PaymentIntentStatus `json:"status"`
	OrderCode      *string                   `json:"order_code,omitempty"`
	FailureMessage *string                   `json:"failure_message,omitempty"`
}

// IyzicoCallback is the inline-card gateway's server-to-server
// completion notification.
type IyzicoCallback struct {
	IntentID uuid.UUID
	Status   string
	Token    string
	Message  string
}
