package admins

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// Repository defines persistence operations for back-office accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	Save(ctx context.Context, admin *models.AdminUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.AdminUser, error)
	CountOwners(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
