package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDraft freezes everything needed to create an order after a card
// payment round-trip. It is captured at submission time so the cart can
// change or vanish without affecting the pending payment.
type OrderDraft struct {
	CartToken string      `json:"cart_token"`
	Customer  Customer    `json:"customer"`
	Lines     []DraftLine `json:"lines"`
	Total     string      `json:"total"`
}

// Customer is the buyer contact block collected at checkout.
type Customer struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	District *string `json:"district,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// DraftLine is a priced cart line frozen into a draft.
type DraftLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	VariantName *string   `json:"variant_name,omitempty"`
	Name        string    `json:"name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
}

// TotalAmount parses the stored total back into a decimal.
func (d OrderDraft) TotalAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(d.Total)
}

// LineUnitPrice parses a draft line's unit price.
func (l DraftLine) LineUnitPrice() (decimal.Decimal, error) {
	return decimal.NewFromString(l.UnitPrice)
}
