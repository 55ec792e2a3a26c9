package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// Repository defines persistence operations for storefront content.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListBanners(ctx context.Context, onlyActive bool) ([]models.Banner, error)
	FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	SaveBanner(ctx context.Context, banner *models.Banner) error
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	ListSlides(ctx context.Context, onlyActive bool) ([]models.Slide, error)
	FindSlide(ctx context.Context, id uuid.UUID) (*models.Slide, error)
	SaveSlide(ctx context.Context, slide *models.Slide) error
	DeleteSlide(ctx context.Context, id uuid.UUID) error

	ListTestimonials(ctx context.Context, onlyApproved bool) ([]models.Testimonial, error)
	FindTestimonial(ctx context.Context, id uuid.UUID) (*models.Testimonial, error)
	SaveTestimonial(ctx context.Context, testimonial *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
}
