package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// Order is a confirmed purchase. OrderCode is the customer-facing
// lookup handle and never changes after creation.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode     string              `gorm:"column:order_code;not null;uniqueIndex"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	CardProvider  *enums.CardProvider `gorm:"column:card_provider"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Phone         string              `gorm:"column:phone;not null"`
	Email         *string             `gorm:"column:email"`
	Address       string              `gorm:"column:address;not null"`
	City          string              `gorm:"column:city;not null"`
	District      *string             `gorm:"column:district"`
	Note          *string             `gorm:"column:note"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ReceiptURL    *string             `gorm:"column:receipt_url"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
