package content

import (
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
)

// BannerInput captures create/update payloads for a banner.
type BannerInput struct {
	Title     string  `json:"title" validate:"required,max=200"`
	ImageURL  string  `json:"image_url" validate:"required"`
	LinkURL   *string `json:"link_url"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// SlideInput captures create/update payloads for a hero slide.
type SlideInput struct {
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
	ImageURL  string  `json:"image_url" validate:"required"`
	LinkURL   *string `json:"link_url"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// TestimonialInput captures create/update payloads for a testimonial.
type TestimonialInput struct {
	Author     string  `json:"author" validate:"required,max=120"`
	Body       string  `json:"body" validate:"required,max=2000"`
	AvatarURL  *string `json:"avatar_url"`
	Rating     int     `json:"rating" validate:"min=1,max=5"`
	SortOrder  int     `json:"sort_order"`
	IsApproved *bool   `json:"is_approved"`
}

// BannerView is the serialized shape of a banner.
type BannerView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
}

// SlideView is the serialized shape of a slide.
type SlideView struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Subtitle  *string   `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
}

// TestimonialView is the serialized shape of a testimonial.
type TestimonialView struct {
	ID         uuid.UUID `json:"id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Rating     int       `json:"rating"`
	SortOrder  int       `json:"sort_order"`
	IsApproved bool      `json:"is_approved"`
}

func newBannerView(banner *models.Banner) BannerView {
	return BannerView{
		ID:        banner.ID,
		Title:     banner.Title,
		ImageURL:  banner.ImageURL,
		LinkURL:   banner.LinkURL,
		SortOrder: banner.SortOrder,
		IsActive:  banner.IsActive,
	}
}

func newSlideView(slide *models.Slide) SlideView {
	return SlideView{
		ID:        slide.ID,
		Title:     slide.Title,
		Subtitle:  slide.Subtitle,
		ImageURL:  slide.ImageURL,
		LinkURL:   slide.LinkURL,
		SortOrder: slide.SortOrder,
		IsActive:  slide.IsActive,
	}
}

func newTestimonialView(testimonial *models.Testimonial) TestimonialView {
	return TestimonialView{
		ID:         testimonial.ID,
		Author:     testimonial.Author,
		Body:       testimonial.Body,
		AvatarURL:  testimonial.AvatarURL,
		Rating:     testimonial.Rating,
		SortOrder:  testimonial.SortOrder,
		IsApproved: testimonial.IsApproved,
	}
}
