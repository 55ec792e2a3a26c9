package controllers

import (
	"net/http"

	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/metrics"
)

// SubmitCheckout converts the current cart into an order or starts a
// card payment, depending on the chosen payment method.
func SubmitCheckout(svc checkout.Service, httpMetrics *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())

		var body checkout.SubmitInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Submit(r.Context(), token, body)
		if err != nil {
			if httpMetrics != nil {
				httpMetrics.IncCheckoutOutcome(body.PaymentMethod, "rejected")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if httpMetrics != nil {
			httpMetrics.IncCheckoutOutcome(body.PaymentMethod, string(submission.Status))
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}
