package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// ItemView is the serialized shape of an order item.
type ItemView struct {
	ProductID   uuid.UUID `json:"product_id"`
	VariantName *string   `json:"variant_name,omitempty"`
	Name        string    `json:"name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

// View is the full serialized shape of an order, used by the back office.
type View struct {
	ID            uuid.UUID           `json:"id"`
	OrderCode     string              `json:"order_code"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CardProvider  *enums.CardProvider `json:"card_provider,omitempty"`
	CustomerName  string              `json:"customer_name"`
	Phone         string              `json:"phone"`
	Email         *string             `json:"email,omitempty"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	District      *string             `json:"district,omitempty"`
	Note          *string             `json:"note,omitempty"`
	TotalAmount   string              `json:"total_amount"`
	ReceiptURL    *string             `json:"receipt_url,omitempty"`
	Items         []ItemView          `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// TrackingView is the customer-facing order shape. It omits the
// uploaded receipt and internal identifiers.
type TrackingView struct {
	OrderCode     string              `json:"order_code"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CustomerName  string              `json:"customer_name"`
	TotalAmount   string              `json:"total_amount"`
	Items         []ItemView          `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// AdvanceStatusInput carries an admin status change request.
type AdvanceStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// NewView maps an order model to its back-office shape.
func NewView(order *models.Order) View {
	return View{
		ID:            order.ID,
		OrderCode:     order.OrderCode,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CardProvider:  order.CardProvider,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Email:         order.Email,
		Address:       order.Address,
		City:          order.City,
		District:      order.District,
		Note:          order.Note,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		ReceiptURL:    order.ReceiptURL,
		Items:         itemViews(order.Items),
		CreatedAt:     order.CreatedAt,
	}
}

// NewTrackingView maps an order model to its public shape.
func NewTrackingView(order *models.Order) TrackingView {
	return TrackingView{
		OrderCode:     order.OrderCode,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CustomerName:  order.CustomerName,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Items:         itemViews(order.Items),
		CreatedAt:     order.CreatedAt,
	}
}

func itemViews(items []models.OrderItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ProductID:   item.ProductID,
			VariantName: item.VariantName,
			Name:        item.Name,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	return views
}
