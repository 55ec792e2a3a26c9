package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

type stubOrdersService struct {
	tracking *orders.TrackingView
	trackErr error
	listed   []orders.View
	advanced *orders.View
}

func (s *stubOrdersService) CreateFromDraft(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) Track(ctx context.Context, rawCode string) (*orders.TrackingView, error) {
	return s.tracking, s.trackErr
}

func (s *stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*orders.View, error) {
	return nil, nil
}

func (s *stubOrdersService) List(ctx context.Context, statusFilter *string) ([]orders.View, error) {
	return s.listed, nil
}

func (s *stubOrdersService) AdvanceStatus(ctx context.Context, id uuid.UUID, input orders.AdvanceStatusInput) (*orders.View, error) {
	return s.advanced, nil
}

func trackRequest(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+code, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderRef", code)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestTrackOrderSuccess(t *testing.T) {
	svc := &stubOrdersService{tracking: &orders.TrackingView{
		OrderCode:     "VS-ABC123",
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		TotalAmount:   "100.00",
	}}
	handler := TrackOrder(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, trackRequest("VS-ABC123"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orders.TrackingView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderCode != "VS-ABC123" {
		t.Fatalf("unexpected order code: %s", envelope.Data.OrderCode)
	}
}

func TestTrackOrderNotFound(t *testing.T) {
	svc := &stubOrdersService{trackErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := TrackOrder(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, trackRequest("VS-MISSING"))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestTrackOrderDependencyFailureIsNot404(t *testing.T) {
	svc := &stubOrdersService{trackErr: pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")}
	handler := TrackOrder(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, trackRequest("VS-ABC123"))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
