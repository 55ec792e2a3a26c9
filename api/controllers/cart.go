package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/cart"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// GetCart returns the cart bound to the request's token, creating an
// empty view when no cart exists yet.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())

		view, err := svc.Get(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())

		var body cart.AddLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddLine(r.Context(), token, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())
		identityKey := chi.URLParam(r, "identityKey")

		var body cart.UpdateLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateLine(r.Context(), token, identityKey, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())
		identityKey := chi.URLParam(r, "identityKey")

		view, err := svc.RemoveLine(r.Context(), token, identityKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())

		if err := svc.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
