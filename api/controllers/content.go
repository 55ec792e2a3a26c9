package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/content"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// The three content collections share identical handler shapes, so the
// controllers are built from small generic adapters instead of nine
// copies of the same body.

func listContent[T any](fn func(context.Context) ([]T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := fn(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func createContent[I, V any](fn func(context.Context, I) (*V, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body I
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := fn(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func updateContent[I, V any](fn func(context.Context, uuid.UUID, I) (*V, error), param string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body I
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := fn(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func deleteContent(fn func(context.Context, uuid.UUID) error, param string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := fn(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func PublicBanners(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.PublicBanners, logg)
}

func PublicSlides(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.PublicSlides, logg)
}

func PublicTestimonials(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.PublicTestimonials, logg)
}

func AdminBanners(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.ListBanners, logg)
}

func AdminCreateBanner(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent(svc.CreateBanner, logg)
}

func AdminUpdateBanner(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent(svc.UpdateBanner, "bannerID", logg)
}

func AdminDeleteBanner(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent(svc.DeleteBanner, "bannerID", logg)
}

func AdminSlides(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.ListSlides, logg)
}

func AdminCreateSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent(svc.CreateSlide, logg)
}

func AdminUpdateSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent(svc.UpdateSlide, "slideID", logg)
}

func AdminDeleteSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent(svc.DeleteSlide, "slideID", logg)
}

func AdminTestimonials(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent(svc.ListTestimonials, logg)
}

func AdminCreateTestimonial(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent(svc.CreateTestimonial, logg)
}

func AdminUpdateTestimonial(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent(svc.UpdateTestimonial, "testimonialID", logg)
}

func AdminDeleteTestimonial(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent(svc.DeleteTestimonial, "testimonialID", logg)
}
