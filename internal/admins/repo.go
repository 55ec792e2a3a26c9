package admins

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an admins repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *repository) Save(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminUser{}).Error
}

func (r *repository) List(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *repository) CountOwners(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("role = ?", enums.AdminRoleOwner).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
