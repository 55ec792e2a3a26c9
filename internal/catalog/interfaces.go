package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error)
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}
