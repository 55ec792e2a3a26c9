package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderByCode(ctx context.Context, code string) (*models.Order, error)
	OrderCodeExists(ctx context.Context, code string) (bool, error)
	ListOrders(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}
