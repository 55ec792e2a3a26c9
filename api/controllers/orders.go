package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// CreateOrder is the legacy bank-transfer submission endpoint. It runs
// the same checkout path as POST /api/checkout but only accepts the
// bank transfer method.
func CreateOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())

		var body checkout.SubmitInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.PaymentMethod == "" {
			body.PaymentMethod = enums.PaymentMethodBankTransfer.String()
		}
		if body.PaymentMethod != enums.PaymentMethodBankTransfer.String() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "this endpoint only accepts bank transfer orders"))
			return
		}

		submission, err := svc.Submit(r.Context(), token, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}

// TrackOrder looks an order up by its public code.
func TrackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Track(r.Context(), chi.URLParam(r, "orderRef"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminOrders lists orders for the back office, optionally filtered by
// status.
func AdminOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var statusFilter *string
		if raw := r.URL.Query().Get("status"); raw != "" {
			statusFilter = &raw
		}

		views, err := svc.List(r.Context(), statusFilter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// AdminAdvanceOrder moves an order along its status lifecycle.
func AdminAdvanceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderRef")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.AdvanceStatusInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AdvanceStatus(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
