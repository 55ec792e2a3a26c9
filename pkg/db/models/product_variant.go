package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a named option of a product with its own price.
// Variant names are unique within a product.
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_variant_product_name"`
	Name      string          `gorm:"column:name;not null;uniqueIndex:idx_variant_product_name"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	SortOrder int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
