package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// GetPaymentSettings loads the singleton row, materializing defaults on first read.
func (r *repository) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	var row models.PaymentSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.PaymentSettingsID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.PaymentSettings{ID: models.PaymentSettingsID, BankTransferEnabled: true, IyzicoSandbox: true, PaytrSandbox: true}
		if createErr := r.db.WithContext(ctx).Create(&row).Error; createErr != nil {
			return nil, createErr
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SavePaymentSettings(ctx context.Context, row *models.PaymentSettings) error {
	row.ID = models.PaymentSettingsID
	return r.db.WithContext(ctx).Save(row).Error
}

// GetSiteSettings loads the singleton row, materializing defaults on first read.
func (r *repository) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var row models.SiteSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SiteSettingsID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.SiteSettings{ID: models.SiteSettingsID}
		if createErr := r.db.WithContext(ctx).Create(&row).Error; createErr != nil {
			return nil, createErr
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SaveSiteSettings(ctx context.Context, row *models.SiteSettings) error {
	row.ID = models.SiteSettingsID
	return r.db.WithContext(ctx).Save(row).Error
}
