package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// AddLineInput captures an add-to-cart request.
type AddLineInput struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	VariantName *string   `json:"variant_name"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

// UpdateLineInput captures a quantity change for an existing line.
// Zero or negative quantities remove the line.
type UpdateLineInput struct {
	Quantity int `json:"quantity"`
}

// LineView is the serialized shape of a cart line.
type LineView struct {
	IdentityKey string    `json:"identity_key"`
	ProductID   uuid.UUID `json:"product_id"`
	VariantName *string   `json:"variant_name,omitempty"`
	Name        string    `json:"name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

// View is the serialized shape of a cart.
type View struct {
	Token     string     `json:"token"`
	Lines     []LineView `json:"lines"`
	ItemCount int        `json:"item_count"`
	Subtotal  string     `json:"subtotal"`
}

// NewView maps a cart record to its API shape.
func NewView(record *models.CartRecord) View {
	lines := make([]LineView, 0, len(record.Lines))
	subtotal := decimal.Zero
	count := 0
	for _, line := range record.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		count += line.Quantity
		lines = append(lines, LineView{
			IdentityKey: line.IdentityKey,
			ProductID:   line.ProductID,
			VariantName: line.VariantName,
			Name:        line.Name,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
			LineTotal:   lineTotal.StringFixed(2),
			ImageURL:    line.ImageURL,
		})
	}
	return View{
		Token:     record.Token,
		Lines:     lines,
		ItemCount: count,
		Subtotal:  subtotal.StringFixed(2),
	}
}

// EmptyView returns the serialized shape of a cart that has no stored record.
func EmptyView(token string) View {
	return View{
		Token:    token,
		Lines:    []LineView{},
		Subtotal: "0.00",
	}
}
