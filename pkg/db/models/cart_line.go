package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product-or-variant entry in a cart. IdentityKey is
// the product id, or "{productID}-{variantName}" when a variant was
// chosen, so the same product can appear once per variant.
type CartLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_line_identity"`
	IdentityKey string          `gorm:"column:identity_key;not null;uniqueIndex:idx_cart_line_identity"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantName *string         `gorm:"column:variant_name"`
	Name        string          `gorm:"column:name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
