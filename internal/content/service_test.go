package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

type fakeContentRepo struct {
	banners      map[uuid.UUID]*models.Banner
	slides       map[uuid.UUID]*models.Slide
	testimonials map[uuid.UUID]*models.Testimonial
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		banners:      make(map[uuid.UUID]*models.Banner),
		slides:       make(map[uuid.UUID]*models.Slide),
		testimonials: make(map[uuid.UUID]*models.Testimonial),
	}
}

func (f *fakeContentRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeContentRepo) ListBanners(ctx context.Context, onlyActive bool) ([]models.Banner, error) {
	var out []models.Banner
	for _, banner := range f.banners {
		if onlyActive && !banner.IsActive {
			continue
		}
		out = append(out, *banner)
	}
	return out, nil
}

func (f *fakeContentRepo) FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	banner, ok := f.banners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *banner
	return &clone, nil
}

func (f *fakeContentRepo) SaveBanner(ctx context.Context, banner *models.Banner) error {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	clone := *banner
	f.banners[banner.ID] = &clone
	return nil
}

func (f *fakeContentRepo) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	delete(f.banners, id)
	return nil
}

func (f *fakeContentRepo) ListSlides(ctx context.Context, onlyActive bool) ([]models.Slide, error) {
	var out []models.Slide
	for _, slide := range f.slides {
		if onlyActive && !slide.IsActive {
			continue
		}
		out = append(out, *slide)
	}
	return out, nil
}

func (f *fakeContentRepo) FindSlide(ctx context.Context, id uuid.UUID) (*models.Slide, error) {
	slide, ok := f.slides[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *slide
	return &clone, nil
}

func (f *fakeContentRepo) SaveSlide(ctx context.Context, slide *models.Slide) error {
	if slide.ID == uuid.Nil {
		slide.ID = uuid.New()
	}
	clone := *slide
	f.slides[slide.ID] = &clone
	return nil
}

func (f *fakeContentRepo) DeleteSlide(ctx context.Context, id uuid.UUID) error {
	delete(f.slides, id)
	return nil
}

func (f *fakeContentRepo) ListTestimonials(ctx context.Context, onlyApproved bool) ([]models.Testimonial, error) {
	var out []models.Testimonial
	for _, testimonial := range f.testimonials {
		if onlyApproved && !testimonial.IsApproved {
			continue
		}
		out = append(out, *testimonial)
	}
	return out, nil
}

func (f *fakeContentRepo) FindTestimonial(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	testimonial, ok := f.testimonials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *testimonial
	return &clone, nil
}

func (f *fakeContentRepo) SaveTestimonial(ctx context.Context, testimonial *models.Testimonial) error {
	if testimonial.ID == uuid.Nil {
		testimonial.ID = uuid.New()
	}
	clone := *testimonial
	f.testimonials[testimonial.ID] = &clone
	return nil
}

func (f *fakeContentRepo) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	delete(f.testimonials, id)
	return nil
}

func newTestContentService(t *testing.T) (Service, *fakeContentRepo) {
	t.Helper()
	repo := newFakeContentRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestPublicBannersHideInactive(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	active := true
	inactive := false
	_, err := svc.CreateBanner(ctx, BannerInput{Title: "Yaz Kampanyası", ImageURL: "/uploads/image/b1.jpg", IsActive: &active})
	require.NoError(t, err)
	_, err = svc.CreateBanner(ctx, BannerInput{Title: "Eski Kampanya", ImageURL: "/uploads/image/b2.jpg", IsActive: &inactive})
	require.NoError(t, err)

	public, err := svc.PublicBanners(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Yaz Kampanyası", public[0].Title)

	all, err := svc.ListBanners(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateBannerDefaultsToActive(t *testing.T) {
	svc, repo := newTestContentService(t)

	view, err := svc.CreateBanner(context.Background(), BannerInput{Title: "Yeni", ImageURL: "/uploads/image/b.jpg"})
	require.NoError(t, err)
	assert.True(t, repo.banners[view.ID].IsActive)
}

func TestUpdateBannerUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.UpdateBanner(context.Background(), uuid.New(), BannerInput{Title: "X", ImageURL: "/x.jpg"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteSlideRemovesIt(t *testing.T) {
	svc, repo := newTestContentService(t)
	ctx := context.Background()

	title := "Tanıtım"
	view, err := svc.CreateSlide(ctx, SlideInput{Title: &title, ImageURL: "/uploads/image/s1.jpg"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlide(ctx, view.ID))
	assert.Empty(t, repo.slides)

	err = svc.DeleteSlide(ctx, view.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestPublicTestimonialsOnlyApproved(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	_, err := svc.CreateTestimonial(ctx, TestimonialInput{Author: "Mehmet K.", Body: "Çok memnun kaldım.", Rating: 5})
	require.NoError(t, err)
	pending := false
	_, err = svc.CreateTestimonial(ctx, TestimonialInput{Author: "Zeynep A.", Body: "Beklemedeyim.", Rating: 4, IsApproved: &pending})
	require.NoError(t, err)

	public, err := svc.PublicTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Mehmet K.", public[0].Author)
}
