package catalog

import (
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// VariantInput is a variant row supplied by the admin UI.
type VariantInput struct {
	Name      string `json:"name" validate:"required,max=120"`
	Price     string `json:"price" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

// ProductInput captures create/update payloads for a product.
type ProductInput struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description *string        `json:"description"`
	Price       string         `json:"price" validate:"required"`
	ImageURL    *string        `json:"image_url"`
	IsActive    *bool          `json:"is_active"`
	IsFeatured  *bool          `json:"is_featured"`
	SortOrder   int            `json:"sort_order"`
	Variants    []VariantInput `json:"variants" validate:"dive"`
}

// VariantView is the serialized shape of a product variant.
type VariantView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	SortOrder int       `json:"sort_order"`
}

// ProductView is the serialized shape of a product.
type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description,omitempty"`
	Price       string        `json:"price"`
	ImageURL    *string       `json:"image_url,omitempty"`
	IsActive    bool          `json:"is_active"`
	IsFeatured  bool          `json:"is_featured"`
	SortOrder   int           `json:"sort_order"`
	Variants    []VariantView `json:"variants"`
}

// NewProductView maps a product model to its API shape.
func NewProductView(product *models.Product) ProductView {
	variants := make([]VariantView, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, VariantView{
			ID:        v.ID,
			Name:      v.Name,
			Price:     v.Price.StringFixed(2),
			SortOrder: v.SortOrder,
		})
	}
	return ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		IsFeatured:  product.IsFeatured,
		SortOrder:   product.SortOrder,
		Variants:    variants,
	}
}
