package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a storefront listing. Pricing lives on the product unless
// variants are present, in which case each variant carries its own price.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	Description *string          `gorm:"column:description"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL    *string          `gorm:"column:image_url"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool             `gorm:"column:is_featured;not null;default:false"`
	SortOrder   int              `gorm:"column:sort_order;not null;default:0"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
