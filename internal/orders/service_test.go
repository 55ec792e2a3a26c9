package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.Order
	byCode map[string]*models.Order
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: make(map[uuid.UUID]*models.Order),
		byCode: make(map[string]*models.Order),
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	s.byCode[order.OrderCode] = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	order, ok := s.orders[items[0].OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Items = append(order.Items, items...)
	return nil
}

func (s *stubOrdersRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) FindOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	order, ok := s.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	_, ok := s.byCode[code]
	return ok, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if status != nil && order.Status != *status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

type noopTxRunner struct{}

func (noopTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func draftFixture() types.OrderDraft {
	email := "musteri@example.com"
	return types.OrderDraft{
		CartToken: uuid.NewString(),
		Customer: types.Customer{
			Name:    "Ayse Yilmaz",
			Phone:   "+905551112233",
			Email:   &email,
			Address: "Bagdat Cad. 12",
			City:    "Istanbul",
		},
		Lines: []types.DraftLine{
			{ProductID: uuid.New(), Name: "Collagen Powder", UnitPrice: "450.00", Quantity: 2},
			{ProductID: uuid.New(), Name: "Herbal Tea", UnitPrice: "120.00", Quantity: 1},
		},
		Total: "1020.00",
	}
}

func TestCreateFromDraftMintsCodeAndSnapshotsItems(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo, noopTxRunner{})
	require.NoError(t, err)

	order, err := svc.CreateFromDraft(context.Background(), CreateInput{
		Draft:         draftFixture(),
		PaymentMethod: enums.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderCode, "VS-"))
	assert.Len(t, order.OrderCode, 9)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "1020.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "900.00", order.Items[0].LineTotal.StringFixed(2))
}

func TestCreateFromDraftRejectsEmptyDraft(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo(), noopTxRunner{})
	require.NoError(t, err)

	_, err = svc.CreateFromDraft(context.Background(), CreateInput{
		Draft:         types.OrderDraft{Total: "0.00"},
		PaymentMethod: enums.PaymentMethodBankTransfer,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTrackNormalizesCode(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo, noopTxRunner{})
	require.NoError(t, err)
	ctx := context.Background()

	order, err := svc.CreateFromDraft(ctx, CreateInput{
		Draft:         draftFixture(),
		PaymentMethod: enums.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	suffix := strings.TrimPrefix(order.OrderCode, "VS-")

	for _, raw := range []string{order.OrderCode, strings.ToLower(order.OrderCode), suffix, strings.ToLower(suffix)} {
		view, err := svc.Track(ctx, raw)
		require.NoError(t, err, "raw code %q", raw)
		assert.Equal(t, order.OrderCode, view.OrderCode)
	}
}

func TestTrackUnknownCodeIsNotFound(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo(), noopTxRunner{})
	require.NoError(t, err)

	_, err = svc.Track(context.Background(), "VS-FFFFFF")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAdvanceStatusForwardOnly(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo, noopTxRunner{})
	require.NoError(t, err)
	ctx := context.Background()

	order, err := svc.CreateFromDraft(ctx, CreateInput{
		Draft:         draftFixture(),
		PaymentMethod: enums.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	// skipping a stage is allowed
	view, err := svc.AdvanceStatus(ctx, order.ID, AdvanceStatusInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, view.Status)

	// moving backwards is a state conflict
	_, err = svc.AdvanceStatus(ctx, order.ID, AdvanceStatusInput{Status: "confirmed"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	// re-applying the current status is a state conflict too
	_, err = svc.AdvanceStatus(ctx, order.ID, AdvanceStatusInput{Status: "shipped"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	view, err = svc.AdvanceStatus(ctx, order.ID, AdvanceStatusInput{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, view.Status)
}

func TestAdvanceStatusRejectsUnknownStatus(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo, noopTxRunner{})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), uuid.New(), AdvanceStatusInput{Status: "lost"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
