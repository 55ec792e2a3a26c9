package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/internal/settings"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// CardPaymentStatus tells the storefront whether card payment is
// enabled and which provider drives it.
func CardPaymentStatus(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.CardStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CardPaymentIntent is the client poll endpoint for a payment in
// flight. The browser lands back on the storefront before the
// server-to-server callback may have settled the intent.
func CardPaymentIntent(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "intentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.IntentStatus(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CardPaymentCallback receives gateway completion notifications. The
// inline-card provider posts the shopper's browser here after the
// 3-D-Secure challenge; the hosted-iframe provider calls
// server-to-server and expects a bare OK body.
func CardPaymentCallback(svc checkout.Service, appCfg config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback payload"))
			return
		}

		provider, err := enums.ParseCardProvider(chi.URLParam(r, "provider"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown card provider"))
			return
		}

		switch provider {
		case enums.CardProviderIyzico:
			handleIyzicoCallback(svc, appCfg, logg, w, r)
		case enums.CardProviderPaytr:
			handlePaytrCallback(svc, logg, w, r)
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown card provider"))
		}
	}
}

func handleIyzicoCallback(svc checkout.Service, appCfg config.AppConfig, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	intentID, err := uuid.Parse(r.FormValue("intent_id"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid intent_id"))
		return
	}

	callback := checkout.IyzicoCallback{
		IntentID: intentID,
		Status:   r.FormValue("status"),
		Token:    r.FormValue("token"),
		Message:  r.FormValue("error_message"),
	}

	view, err := svc.FinalizeIyzico(r.Context(), callback)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	// The shopper's browser made this request. Hand it back to the
	// storefront result page instead of showing raw JSON.
	http.Redirect(w, r, resultPageURL(appCfg, view.ID), http.StatusSeeOther)
}

func handlePaytrCallback(svc checkout.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	notification := payments.PaytrNotification{
		MerchantOID: r.FormValue("merchant_oid"),
		Status:      r.FormValue("status"),
		TotalAmount: r.FormValue("total_amount"),
		Hash:        r.FormValue("hash"),
	}

	if _, err := svc.FinalizePaytr(r.Context(), notification); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	// The gateway retries the notification until it reads this exact
	// body.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func resultPageURL(appCfg config.AppConfig, intentID uuid.UUID) string {
	base := strings.TrimRight(appCfg.FrontendURL, "/")
	return base + "/payment/result?" + url.Values{"intent_id": {intentID.String()}}.Encode()
}
