package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

type stubCheckoutService struct {
	submission *checkout.Submission
	submitErr  error
	intent     *checkout.IntentView
	paytrCalls int
}

func (s *stubCheckoutService) Submit(ctx context.Context, cartToken string, input checkout.SubmitInput) (*checkout.Submission, error) {
	return s.submission, s.submitErr
}

func (s *stubCheckoutService) FinalizeIyzico(ctx context.Context, callback checkout.IyzicoCallback) (*checkout.IntentView, error) {
	return s.intent, nil
}

func (s *stubCheckoutService) FinalizePaytr(ctx context.Context, notification payments.PaytrNotification) (*checkout.IntentView, error) {
	s.paytrCalls++
	return s.intent, nil
}

func (s *stubCheckoutService) IntentStatus(ctx context.Context, id uuid.UUID) (*checkout.IntentView, error) {
	return s.intent, nil
}

func submitBody() string {
	return `{
		"customer_name": "Ayşe Yılmaz",
		"phone": "+905551112233",
		"email": "ayse@example.com",
		"address": "Çankaya Mah. 100. Sok. No:1",
		"city": "Ankara",
		"payment_method": "bank_transfer",
		"receipt_file_url": "/uploads/receipt/r1.jpg"
	}`
}

func TestSubmitCheckoutAccepted(t *testing.T) {
	code := "VS-ABC123"
	svc := &stubCheckoutService{submission: &checkout.Submission{
		Status:    checkout.SubmissionAccepted,
		OrderCode: &code,
	}}
	handler := SubmitCheckout(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkout.Submission `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != checkout.SubmissionAccepted {
		t.Fatalf("unexpected status: %s", envelope.Data.Status)
	}
	if envelope.Data.OrderCode == nil || *envelope.Data.OrderCode != code {
		t.Fatalf("unexpected order code: %v", envelope.Data.OrderCode)
	}
}

func TestSubmitCheckoutEmptyCartRejected(t *testing.T) {
	svc := &stubCheckoutService{submitErr: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := SubmitCheckout(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "cart is empty") {
		t.Fatalf("expected message in body: %s", resp.Body.String())
	}
}

func callbackRequest(provider string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/card-payment/callback/"+provider, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("provider", provider)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestPaytrCallbackAnswersPlainOK(t *testing.T) {
	svc := &stubCheckoutService{intent: &checkout.IntentView{
		ID:     uuid.New(),
		Status: enums.PaymentIntentStatusSubmitted,
	}}
	handler := CardPaymentCallback(svc, config.AppConfig{FrontendURL: "http://localhost:3000"}, nil)

	form := url.Values{}
	form.Set("merchant_oid", strings.ReplaceAll(uuid.NewString(), "-", ""))
	form.Set("status", "success")
	form.Set("total_amount", "10000")
	form.Set("hash", "irrelevant-here")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, callbackRequest("paytr", form))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "OK" {
		t.Fatalf("gateway expects bare OK, got %q", body)
	}
	if svc.paytrCalls != 1 {
		t.Fatalf("expected one finalize call, got %d", svc.paytrCalls)
	}
}

func TestIyzicoCallbackRedirectsToStorefront(t *testing.T) {
	intentID := uuid.New()
	svc := &stubCheckoutService{intent: &checkout.IntentView{
		ID:     intentID,
		Status: enums.PaymentIntentStatusSubmitted,
	}}
	handler := CardPaymentCallback(svc, config.AppConfig{FrontendURL: "http://localhost:3000"}, nil)

	form := url.Values{}
	form.Set("intent_id", intentID.String())
	form.Set("status", "success")
	form.Set("token", "abc")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, callbackRequest("iyzico", form))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	location := resp.Header().Get("Location")
	if !strings.Contains(location, "intent_id="+intentID.String()) {
		t.Fatalf("redirect misses intent id: %s", location)
	}
}

func TestCallbackRejectsUnknownProvider(t *testing.T) {
	handler := CardPaymentCallback(&stubCheckoutService{}, config.AppConfig{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, callbackRequest("stripe", url.Values{}))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
