package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// Repository defines persistence operations for the settings singletons.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error)
	SavePaymentSettings(ctx context.Context, row *models.PaymentSettings) error
	GetSiteSettings(ctx context.Context) (*models.SiteSettings, error)
	SaveSiteSettings(ctx context.Context, row *models.SiteSettings) error
}
