package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCartByToken(ctx context.Context, token string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("token = ?", token).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) CreateCart(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindLine(ctx context.Context, cartID uuid.UUID, identityKey string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND identity_key = ?", cartID, identityKey).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) CreateLine(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&models.CartLine{}).Error
}

func (r *repository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLine{}).Error
}

// DeleteCartsInactiveSince drops carts untouched since the cutoff.
// Lines go with them via the cascade.
func (r *repository) DeleteCartsInactiveSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.CartRecord{})
	return result.RowsAffected, result.Error
}
