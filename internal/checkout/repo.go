package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

type intentRepository struct {
	db *gorm.DB
}

// NewIntentRepository builds an intent repository bound to the provided DB.
func NewIntentRepository(db *gorm.DB) IntentRepository {
	return &intentRepository{db: db}
}

func (r *intentRepository) WithTx(tx *gorm.DB) IntentRepository {
	if tx == nil {
		return r
	}
	return &intentRepository{db: tx}
}

func (r *intentRepository) Create(ctx context.Context, intent *models.PaymentIntent) (*models.PaymentIntent, error) {
	if err := r.db.WithContext(ctx).Create(intent).Error; err != nil {
		return nil, err
	}
	return intent, nil
}

func (r *intentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&intent).Error; err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *intentRepository) Save(ctx context.Context, intent *models.PaymentIntent) error {
	return r.db.WithContext(ctx).Save(intent).Error
}

// MarkFailedIfActive moves an intent to failed only while it still
// awaits the gateway. An intent already in a terminal state is left
// alone. Reports whether a row changed.
func (r *intentRepository) MarkFailedIfActive(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentIntent{}).
		Where("id = ? AND status IN ?", id, []enums.PaymentIntentStatus{enums.PaymentIntentStatusPending, enums.PaymentIntentStatusRedirect}).
		Updates(map[string]any{
			"status":          enums.PaymentIntentStatusFailed,
			"failure_message": message,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *intentRepository) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.PaymentIntentStatus{enums.PaymentIntentStatusPending, enums.PaymentIntentStatusRedirect}).
		Where("expires_at < ?", cutoff).
		Order("expires_at").
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}
