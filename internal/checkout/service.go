package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

// cartSource is the slice of the cart service checkout needs.
type cartSource interface {
	Snapshot(ctx context.Context, token string) (*models.CartRecord, error)
	Clear(ctx context.Context, token string) error
}

// gateway is the payment adapter surface checkout drives.
type gateway interface {
	Initiate(ctx context.Context, input payments.InitiateInput) (payments.Outcome, error)
	VerifyIyzicoCallback(ctx context.Context, intentID uuid.UUID, token string) (bool, error)
	VerifyPaytrCallback(ctx context.Context, notification payments.PaytrNotification) (bool, error)
}

// orderCreator materializes orders during callback finalization.
type orderCreator interface {
	CreateFromDraft(ctx context.Context, input orders.CreateInput) (*models.Order, error)
}

// inflightGuard serializes submissions per cart token.
type inflightGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutInFlightKey(cartToken string) string
}

// Service orchestrates checkout submission and card payment
// finalization.
type Service interface {
	Submit(ctx context.Context, cartToken string, input SubmitInput) (*Submission, error)
	FinalizeIyzico(ctx context.Context, callback IyzicoCallback) (*IntentView, error)
	FinalizePaytr(ctx context.Context, notification payments.PaytrNotification) (*IntentView, error)
	IntentStatus(ctx context.Context, id uuid.UUID) (*IntentView, error)
}

// ServiceParams bundles the dependencies of the checkout service.
type ServiceParams struct {
	Carts   cartSource
	Gateway gateway
	Orders  orderCreator
	Intents IntentRepository
	Guard   inflightGuard
	Config  config.CheckoutConfig
	BaseURL string
	Logger  *logger.Logger
}

type service struct {
	carts   cartSource
	gateway gateway
	orders  orderCreator
	intents IntentRepository
	guard   inflightGuard
	cfg     config.CheckoutConfig
	baseURL string
	logg    *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Intents == nil {
		return nil, fmt.Errorf("intent repository required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("in-flight guard required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:   params.Carts,
		gateway: params.Gateway,
		orders:  params.Orders,
		intents: params.Intents,
		guard:   params.Guard,
		cfg:     params.Config,
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		logg:    params.Logger,
	}, nil
}

func (s *service) Submit(ctx context.Context, cartToken string, input SubmitInput) (*Submission, error) {
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	ctx = s.logg.WithCartToken(ctx, cartToken)

	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	if err := validateCustomer(input); err != nil {
		return nil, err
	}

	key := s.guard.CheckoutInFlightKey(cartToken)
	acquired, err := s.guard.SetNX(ctx, key, "1", s.cfg.InFlightTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout guard")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout for this cart is already in progress")
	}
	defer func() {
		if err := s.guard.Del(ctx, key); err != nil {
			s.logg.Warn(ctx, "failed to release checkout guard: "+err.Error())
		}
	}()

	snapshot, err := s.carts.Snapshot(ctx, cartToken)
	if err != nil {
		return nil, err
	}
	draft := buildDraft(cartToken, snapshot, input)

	switch method {
	case enums.PaymentMethodBankTransfer:
		return s.submitBankTransfer(ctx, cartToken, draft, input)
	case enums.PaymentMethodCard:
		return s.submitCard(ctx, cartToken, draft, input)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
}

func (s *service) submitBankTransfer(ctx context.Context, cartToken string, draft types.OrderDraft, input SubmitInput) (*Submission, error) {
	if input.ReceiptURL == nil || strings.TrimSpace(*input.ReceiptURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a payment receipt is required for bank transfer")
	}

	outcome, err := s.gateway.Initiate(ctx, payments.InitiateInput{
		Draft:      draft,
		Method:     enums.PaymentMethodBankTransfer,
		ReceiptURL: input.ReceiptURL,
	})
	if err != nil {
		return nil, err
	}

	switch result := outcome.(type) {
	case payments.Accepted:
		if err := s.carts.Clear(ctx, cartToken); err != nil {
			s.logg.Warn(ctx, "failed to clear cart after submission: "+err.Error())
		}
		code := result.OrderCode
		s.logg.Info(s.logg.WithOrderCode(ctx, code), "checkout submitted")
		return &Submission{Status: SubmissionAccepted, OrderCode: &code}, nil
	case payments.Failure:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, result.Message)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected initiation outcome")
	}
}

func (s *service) submitCard(ctx context.Context, cartToken string, draft types.OrderDraft, input SubmitInput) (*Submission, error) {
	if input.CardProvider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card provider required")
	}
	provider, err := enums.ParseCardProvider(*input.CardProvider)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid card provider")
	}
	ctx = s.logg.WithProvider(ctx, provider.String())

	if provider == enums.CardProviderIyzico {
		if err := input.Card.Normalize().Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid card fields")
		}
	}

	// The draft is frozen on the intent. Cart edits after this point
	// do not change what the shopper pays for.
	intent := &models.PaymentIntent{
		ID:        uuid.New(),
		CartToken: cartToken,
		Provider:  provider,
		Status:    enums.PaymentIntentStatusPending,
		Draft:     draft,
		ExpiresAt: time.Now().UTC().Add(s.cfg.IntentTTL),
	}
	if _, err := s.intents.Create(ctx, intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment intent")
	}

	outcome, err := s.gateway.Initiate(ctx, payments.InitiateInput{
		IntentID:    intent.ID,
		Draft:       draft,
		Method:      enums.PaymentMethodCard,
		Provider:    &provider,
		Card:        input.Card,
		CallbackURL: s.callbackURL(provider),
	})
	if err != nil {
		return nil, err
	}

	switch result := outcome.(type) {
	case payments.Redirect:
		intent.Status = enums.PaymentIntentStatusRedirect
		if err := s.intents.Save(ctx, intent); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment intent")
		}
		s.logg.Info(ctx, "card payment redirect issued")
		kind := result.Kind
		value := result.Value
		id := intent.ID
		return &Submission{
			Status:        SubmissionRedirect,
			IntentID:      &id,
			RedirectKind:  &kind,
			RedirectValue: &value,
		}, nil
	case payments.Failure:
		message := result.Message
		intent.Status = enums.PaymentIntentStatusFailed
		intent.FailureMessage = &message
		if err := s.intents.Save(ctx, intent); err != nil {
			s.logg.Warn(ctx, "failed to mark payment intent failed: "+err.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeGatewayRejected, message)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected initiation outcome")
	}
}

func (s *service) callbackURL(provider enums.CardProvider) string {
	return s.baseURL + "/api/card-payment/callback/" + provider.String()
}

// buildDraft recomputes totals from the stored cart. Client-supplied
// totals are never trusted.
func buildDraft(cartToken string, snapshot *models.CartRecord, input SubmitInput) types.OrderDraft {
	email := strings.TrimSpace(input.Email)
	draft := types.OrderDraft{
		CartToken: cartToken,
		Customer: types.Customer{
			Name:     strings.TrimSpace(input.CustomerName),
			Phone:    strings.TrimSpace(input.Phone),
			Email:    &email,
			Address:  strings.TrimSpace(input.Address),
			City:     strings.TrimSpace(input.City),
			District: input.District,
			Note:     input.Note,
		},
	}

	total := decimal.Zero
	for _, line := range snapshot.Lines {
		draft.Lines = append(draft.Lines, types.DraftLine{
			ProductID:   line.ProductID,
			VariantName: line.VariantName,
			Name:        line.Name,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
		})
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	draft.Total = total.StringFixed(2)
	return draft
}

func validateCustomer(input SubmitInput) error {
	missing := []string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(input.City) == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
