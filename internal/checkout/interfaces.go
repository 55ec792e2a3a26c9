package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// IntentRepository defines persistence operations for payment intents.
type IntentRepository interface {
	WithTx(tx *gorm.DB) IntentRepository
	Create(ctx context.Context, intent *models.PaymentIntent) (*models.PaymentIntent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error)
	Save(ctx context.Context, intent *models.PaymentIntent) error
	MarkFailedIfActive(ctx context.Context, id uuid.UUID, message string) (bool, error)
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.PaymentIntent, error)
}
