package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots a cart line at confirmation time. Prices are
// copied, not referenced, so later catalog edits leave orders intact.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantName *string         `gorm:"column:variant_name"`
	Name        string          `gorm:"column:name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
