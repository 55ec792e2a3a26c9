package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a content repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListBanners(ctx context.Context, onlyActive bool) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var banners []models.Banner
	if err := query.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *repository) FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *repository) SaveBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *repository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{}).Error
}

func (r *repository) ListSlides(ctx context.Context, onlyActive bool) ([]models.Slide, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var slides []models.Slide
	if err := query.Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *repository) FindSlide(ctx context.Context, id uuid.UUID) (*models.Slide, error) {
	var slide models.Slide
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slide).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

func (r *repository) SaveSlide(ctx context.Context, slide *models.Slide) error {
	return r.db.WithContext(ctx).Save(slide).Error
}

func (r *repository) DeleteSlide(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Slide{}).Error
}

func (r *repository) ListTestimonials(ctx context.Context, onlyApproved bool) ([]models.Testimonial, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if onlyApproved {
		query = query.Where("is_approved = ?", true)
	}
	var testimonials []models.Testimonial
	if err := query.Find(&testimonials).Error; err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *repository) FindTestimonial(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&testimonial).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *repository) SaveTestimonial(ctx context.Context, testimonial *models.Testimonial) error {
	return r.db.WithContext(ctx).Save(testimonial).Error
}

func (r *repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Testimonial{}).Error
}
