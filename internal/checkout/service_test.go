package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

type fakeCartSource struct {
	carts   map[string]*models.CartRecord
	cleared []string
}

func newFakeCartSource() *fakeCartSource {
	return &fakeCartSource{carts: make(map[string]*models.CartRecord)}
}

func (f *fakeCartSource) Snapshot(ctx context.Context, token string) (*models.CartRecord, error) {
	cart, ok := f.carts[token]
	if !ok || len(cart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return cart, nil
}

func (f *fakeCartSource) Clear(ctx context.Context, token string) error {
	f.cleared = append(f.cleared, token)
	delete(f.carts, token)
	return nil
}

type fakeGateway struct {
	outcome     payments.Outcome
	err         error
	calls       []payments.InitiateInput
	iyzicoValid bool
	paytrValid  bool
}

func (f *fakeGateway) Initiate(ctx context.Context, input payments.InitiateInput) (payments.Outcome, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeGateway) VerifyIyzicoCallback(ctx context.Context, intentID uuid.UUID, token string) (bool, error) {
	return f.iyzicoValid, nil
}

func (f *fakeGateway) VerifyPaytrCallback(ctx context.Context, notification payments.PaytrNotification) (bool, error) {
	return f.paytrValid, nil
}

type recordingOrderCreator struct {
	created []orders.CreateInput
	nextID  uuid.UUID
}

func (r *recordingOrderCreator) CreateFromDraft(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	r.created = append(r.created, input)
	if r.nextID == uuid.Nil {
		r.nextID = uuid.New()
	}
	return &models.Order{ID: r.nextID, OrderCode: "VS-F00D42"}, nil
}

type fakeIntentRepo struct {
	intents map[uuid.UUID]*models.PaymentIntent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{intents: make(map[uuid.UUID]*models.PaymentIntent)}
}

func (f *fakeIntentRepo) WithTx(tx *gorm.DB) IntentRepository { return f }

func (f *fakeIntentRepo) Create(ctx context.Context, intent *models.PaymentIntent) (*models.PaymentIntent, error) {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	clone := *intent
	f.intents[intent.ID] = &clone
	return intent, nil
}

func (f *fakeIntentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *intent
	return &clone, nil
}

func (f *fakeIntentRepo) Save(ctx context.Context, intent *models.PaymentIntent) error {
	clone := *intent
	f.intents[intent.ID] = &clone
	return nil
}

func (f *fakeIntentRepo) MarkFailedIfActive(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	intent, ok := f.intents[id]
	if !ok || intent.Status.IsFinal() {
		return false, nil
	}
	intent.Status = enums.PaymentIntentStatusFailed
	reason := message
	intent.FailureMessage = &reason
	return true, nil
}

func (f *fakeIntentRepo) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.PaymentIntent, error) {
	var expired []models.PaymentIntent
	for _, intent := range f.intents {
		if intent.Status.IsFinal() || !intent.ExpiresAt.Before(cutoff) {
			continue
		}
		expired = append(expired, *intent)
		if len(expired) == limit {
			break
		}
	}
	return expired, nil
}

type fakeGuard struct {
	held map[string]bool
}

func newFakeGuard() *fakeGuard { return &fakeGuard{held: make(map[string]bool)} }

func (f *fakeGuard) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeGuard) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.held, key)
	}
	return nil
}

func (f *fakeGuard) CheckoutInFlightKey(cartToken string) string {
	return "inflight:checkout:" + cartToken
}

type checkoutFixture struct {
	svc     Service
	carts   *fakeCartSource
	gateway *fakeGateway
	orders  *recordingOrderCreator
	intents *fakeIntentRepo
	guard   *fakeGuard
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts:   newFakeCartSource(),
		gateway: &fakeGateway{},
		orders:  &recordingOrderCreator{},
		intents: newFakeIntentRepo(),
		guard:   newFakeGuard(),
	}
	svc, err := NewService(ServiceParams{
		Carts:   f.carts,
		Gateway: f.gateway,
		Orders:  f.orders,
		Intents: f.intents,
		Guard:   f.guard,
		Config:  config.CheckoutConfig{InFlightTTL: 30 * time.Second, IntentTTL: time.Hour},
		BaseURL: "https://shop.example.com",
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *checkoutFixture) seedCart(token string) {
	price, _ := decimal.NewFromString("50.00")
	vanilla := "Vanilla"
	f.carts.carts[token] = &models.CartRecord{
		Token: token,
		Lines: []models.CartLine{
			{
				ProductID:   uuid.New(),
				VariantName: &vanilla,
				Name:        "Collagen Powder",
				UnitPrice:   price,
				Quantity:    2,
			},
		},
	}
}

func submitInput(method string) SubmitInput {
	return SubmitInput{
		CustomerName:  "Ayse Yilmaz",
		Phone:         "+905551112233",
		Email:         "ayse@example.com",
		Address:       "Bagdat Cad. 12",
		City:          "Istanbul",
		PaymentMethod: method,
	}
}

func TestSubmitWithoutEmailRejectedLocally(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)

	input := submitInput("bank_transfer")
	input.Email = ""

	_, err := f.svc.Submit(context.Background(), token, input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.gateway.calls)
}

func TestSubmitEmptyCartRejectedBeforeGatewayCall(t *testing.T) {
	f := newCheckoutFixture(t)

	input := submitInput("bank_transfer")
	receipt := "/uploads/receipt/a.pdf"
	input.ReceiptURL = &receipt

	_, err := f.svc.Submit(context.Background(), uuid.NewString(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.gateway.calls)
}

func TestSubmitBankTransferWithoutReceiptRejectedLocally(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)

	_, err := f.svc.Submit(context.Background(), token, submitInput("bank_transfer"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.gateway.calls)
	assert.Empty(t, f.carts.cleared)
}

func TestSubmitBankTransferCreatesOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.gateway.outcome = payments.Accepted{OrderCode: "VS-F00D42"}

	input := submitInput("bank_transfer")
	receipt := "/uploads/receipt/a.pdf"
	input.ReceiptURL = &receipt

	result, err := f.svc.Submit(context.Background(), token, input)
	require.NoError(t, err)

	assert.Equal(t, SubmissionAccepted, result.Status)
	require.NotNil(t, result.OrderCode)
	assert.Equal(t, "VS-F00D42", *result.OrderCode)
	assert.Equal(t, []string{token}, f.carts.cleared)

	// Totals are recomputed from the stored cart: 2 x 50.00.
	require.Len(t, f.gateway.calls, 1)
	assert.Equal(t, "100.00", f.gateway.calls[0].Draft.Total)
}

func TestSubmitSecondAttemptWhileInFlightConflicts(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.guard.held[f.guard.CheckoutInFlightKey(token)] = true

	input := submitInput("bank_transfer")
	receipt := "/uploads/receipt/a.pdf"
	input.ReceiptURL = &receipt

	_, err := f.svc.Submit(context.Background(), token, input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Empty(t, f.gateway.calls)
}

func TestSubmitReleasesGuardWhenFinished(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.gateway.outcome = payments.Accepted{OrderCode: "VS-F00D42"}

	input := submitInput("bank_transfer")
	receipt := "/uploads/receipt/a.pdf"
	input.ReceiptURL = &receipt

	_, err := f.svc.Submit(context.Background(), token, input)
	require.NoError(t, err)
	assert.False(t, f.guard.held[f.guard.CheckoutInFlightKey(token)])
}

func TestSubmitCardFreezesDraftOnIntent(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.gateway.outcome = payments.Redirect{Kind: enums.RedirectKindIframeURL, Value: "https://pay.example.com/frame/t"}

	provider := "paytr"
	input := submitInput("card")
	input.CardProvider = &provider

	result, err := f.svc.Submit(context.Background(), token, input)
	require.NoError(t, err)

	assert.Equal(t, SubmissionRedirect, result.Status)
	require.NotNil(t, result.IntentID)
	require.NotNil(t, result.RedirectKind)
	assert.Equal(t, enums.RedirectKindIframeURL, *result.RedirectKind)

	intent, err := f.intents.FindByID(context.Background(), *result.IntentID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentIntentStatusRedirect, intent.Status)
	assert.Equal(t, "100.00", intent.Draft.Total)

	// The cart is not cleared until the gateway confirms.
	assert.Empty(t, f.carts.cleared)

	// Cart edits after initiation do not touch the frozen draft.
	f.carts.carts[token].Lines[0].Quantity = 9
	intent, err = f.intents.FindByID(context.Background(), *result.IntentID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", intent.Draft.Total)
	assert.Equal(t, 2, intent.Draft.Lines[0].Quantity)
}

func TestSubmitCardGatewayRejectionMarksIntentFailed(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.gateway.outcome = payments.Failure{Message: "insufficient funds"}

	provider := "paytr"
	input := submitInput("card")
	input.CardProvider = &provider

	_, err := f.svc.Submit(context.Background(), token, input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeGatewayRejected))

	require.Len(t, f.intents.intents, 1)
	for _, intent := range f.intents.intents {
		assert.Equal(t, enums.PaymentIntentStatusFailed, intent.Status)
		require.NotNil(t, intent.FailureMessage)
		assert.Equal(t, "insufficient funds", *intent.FailureMessage)
	}
	assert.Empty(t, f.carts.cleared)
}

func TestSubmitCardRequiresProvider(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)

	_, err := f.svc.Submit(context.Background(), token, submitInput("card"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSubmitCardCallbackURLCarriesProvider(t *testing.T) {
	f := newCheckoutFixture(t)
	token := uuid.NewString()
	f.seedCart(token)
	f.gateway.outcome = payments.Redirect{Kind: enums.RedirectKindIframeURL, Value: "u"}

	provider := "paytr"
	input := submitInput("card")
	input.CardProvider = &provider

	_, err := f.svc.Submit(context.Background(), token, input)
	require.NoError(t, err)
	require.Len(t, f.gateway.calls, 1)
	assert.Equal(t, "https://shop.example.com/api/card-payment/callback/paytr", f.gateway.calls[0].CallbackURL)
}
