package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

// Service exposes storefront content reads and admin writes.
type Service interface {
	PublicBanners(ctx context.Context) ([]BannerView, error)
	ListBanners(ctx context.Context) ([]BannerView, error)
	CreateBanner(ctx context.Context, input BannerInput) (*BannerView, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, input BannerInput) (*BannerView, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	PublicSlides(ctx context.Context) ([]SlideView, error)
	ListSlides(ctx context.Context) ([]SlideView, error)
	CreateSlide(ctx context.Context, input SlideInput) (*SlideView, error)
	UpdateSlide(ctx context.Context, id uuid.UUID, input SlideInput) (*SlideView, error)
	DeleteSlide(ctx context.Context, id uuid.UUID) error

	PublicTestimonials(ctx context.Context) ([]TestimonialView, error)
	ListTestimonials(ctx context.Context) ([]TestimonialView, error)
	CreateTestimonial(ctx context.Context, input TestimonialInput) (*TestimonialView, error)
	UpdateTestimonial(ctx context.Context, id uuid.UUID, input TestimonialInput) (*TestimonialView, error)
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the content service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PublicBanners(ctx context.Context) ([]BannerView, error) {
	return s.banners(ctx, true)
}

func (s *service) ListBanners(ctx context.Context) ([]BannerView, error) {
	return s.banners(ctx, false)
}

func (s *service) banners(ctx context.Context, onlyActive bool) ([]BannerView, error) {
	records, err := s.repo.ListBanners(ctx, onlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing banners")
	}
	views := make([]BannerView, 0, len(records))
	for i := range records {
		views = append(views, newBannerView(&records[i]))
	}
	return views, nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*BannerView, error) {
	banner := &models.Banner{
		Title:     input.Title,
		ImageURL:  input.ImageURL,
		LinkURL:   input.LinkURL,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	if err := s.repo.SaveBanner(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving banner")
	}
	view := newBannerView(banner)
	return &view, nil
}

func (s *service) UpdateBanner(ctx context.Context, id uuid.UUID, input BannerInput) (*BannerView, error) {
	banner, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		return nil, mapFindErr(err, "banner")
	}
	banner.Title = input.Title
	banner.ImageURL = input.ImageURL
	banner.LinkURL = input.LinkURL
	banner.SortOrder = input.SortOrder
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	if err := s.repo.SaveBanner(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving banner")
	}
	view := newBannerView(banner)
	return &view, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindBanner(ctx, id); err != nil {
		return mapFindErr(err, "banner")
	}
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting banner")
	}
	return nil
}

func (s *service) PublicSlides(ctx context.Context) ([]SlideView, error) {
	return s.slides(ctx, true)
}

func (s *service) ListSlides(ctx context.Context) ([]SlideView, error) {
	return s.slides(ctx, false)
}

func (s *service) slides(ctx context.Context, onlyActive bool) ([]SlideView, error) {
	records, err := s.repo.ListSlides(ctx, onlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing slides")
	}
	views := make([]SlideView, 0, len(records))
	for i := range records {
		views = append(views, newSlideView(&records[i]))
	}
	return views, nil
}

func (s *service) CreateSlide(ctx context.Context, input SlideInput) (*SlideView, error) {
	slide := &models.Slide{
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		ImageURL:  input.ImageURL,
		LinkURL:   input.LinkURL,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}
	if err := s.repo.SaveSlide(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving slide")
	}
	view := newSlideView(slide)
	return &view, nil
}

func (s *service) UpdateSlide(ctx context.Context, id uuid.UUID, input SlideInput) (*SlideView, error) {
	slide, err := s.repo.FindSlide(ctx, id)
	if err != nil {
		return nil, mapFindErr(err, "slide")
	}
	slide.Title = input.Title
	slide.Subtitle = input.Subtitle
	slide.ImageURL = input.ImageURL
	slide.LinkURL = input.LinkURL
	slide.SortOrder = input.SortOrder
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}
	if err := s.repo.SaveSlide(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving slide")
	}
	view := newSlideView(slide)
	return &view, nil
}

func (s *service) DeleteSlide(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindSlide(ctx, id); err != nil {
		return mapFindErr(err, "slide")
	}
	if err := s.repo.DeleteSlide(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting slide")
	}
	return nil
}

func (s *service) PublicTestimonials(ctx context.Context) ([]TestimonialView, error) {
	return s.testimonials(ctx, true)
}

func (s *service) ListTestimonials(ctx context.Context) ([]TestimonialView, error) {
	return s.testimonials(ctx, false)
}

func (s *service) testimonials(ctx context.Context, onlyApproved bool) ([]TestimonialView, error) {
	records, err := s.repo.ListTestimonials(ctx, onlyApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing testimonials")
	}
	views := make([]TestimonialView, 0, len(records))
	for i := range records {
		views = append(views, newTestimonialView(&records[i]))
	}
	return views, nil
}

func (s *service) CreateTestimonial(ctx context.Context, input TestimonialInput) (*TestimonialView, error) {
	testimonial := &models.Testimonial{
		Author:     input.Author,
		Body:       input.Body,
		AvatarURL:  input.AvatarURL,
		Rating:     normalizeRating(input.Rating),
		SortOrder:  input.SortOrder,
		IsApproved: true,
	}
	if input.IsApproved != nil {
		testimonial.IsApproved = *input.IsApproved
	}
	if err := s.repo.SaveTestimonial(ctx, testimonial); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving testimonial")
	}
	view := newTestimonialView(testimonial)
	return &view, nil
}

func (s *service) UpdateTestimonial(ctx context.Context, id uuid.UUID, input TestimonialInput) (*TestimonialView, error) {
	testimonial, err := s.repo.FindTestimonial(ctx, id)
	if err != nil {
		return nil, mapFindErr(err, "testimonial")
	}
	testimonial.Author = input.Author
	testimonial.Body = input.Body
	testimonial.AvatarURL = input.AvatarURL
	testimonial.Rating = normalizeRating(input.Rating)
	testimonial.SortOrder = input.SortOrder
	if input.IsApproved != nil {
		testimonial.IsApproved = *input.IsApproved
	}
	if err := s.repo.SaveTestimonial(ctx, testimonial); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving testimonial")
	}
	view := newTestimonialView(testimonial)
	return &view, nil
}

func (s *service) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindTestimonial(ctx, id); err != nil {
		return mapFindErr(err, "testimonial")
	}
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting testimonial")
	}
	return nil
}

func mapFindErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading "+entity)
}

func normalizeRating(rating int) int {
	if rating < 1 {
		return 5
	}
	if rating > 5 {
		return 5
	}
	return rating
}
