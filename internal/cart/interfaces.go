package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// Repository defines persistence operations for cart storage.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCartByToken(ctx context.Context, token string) (*models.CartRecord, error)
	CreateCart(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindLine(ctx context.Context, cartID uuid.UUID, identityKey string) (*models.CartLine, error)
	CreateLine(ctx context.Context, line *models.CartLine) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLines(ctx context.Context, cartID uuid.UUID) error
	DeleteCartsInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}
