package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

// settingsSource yields the stored payment settings with credentials.
type settingsSource interface {
	Raw(ctx context.Context) (*models.PaymentSettings, error)
}

// orderCreator materializes orders from frozen drafts.
type orderCreator interface {
	CreateFromDraft(ctx context.Context, input orders.CreateInput) (*models.Order, error)
}

// InitiateInput carries one payment initiation attempt.
type InitiateInput struct {
	IntentID    uuid.UUID
	Draft       types.OrderDraft
	Method      enums.PaymentMethod
	Provider    *enums.CardProvider
	Card        CardFields
	ReceiptURL  *string
	CallbackURL string
}

// PaytrNotification is the server-to-server callback payload from the
// hosted-iframe gateway.
type PaytrNotification struct {
	MerchantOID string
	Status      string
	TotalAmount string
	Hash        string
}

// Service unifies bank transfer and the card gateways behind one
// initiation entry point.
type Service interface {
	Initiate(ctx context.Context, input InitiateInput) (Outcome, error)
	VerifyIyzicoCallback(ctx context.Context, intentID uuid.UUID, token string) (bool, error)
	VerifyPaytrCallback(ctx context.Context, notification PaytrNotification) (bool, error)
	IyzicoCallbackToken(ctx context.Context, intentID uuid.UUID) (string, error)
}

type service struct {
	settings settingsSource
	orders   orderCreator
	iyzico   *IyzicoClient
	paytr    *PaytrClient
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies of the payments service.
type ServiceParams struct {
	Settings settingsSource
	Orders   orderCreator
	Iyzico   *IyzicoClient
	Paytr    *PaytrClient
	Logger   *logger.Logger
}

// NewService builds the payment gateway adapter.
func NewService(params ServiceParams) (Service, error) {
	if params.Settings == nil {
		return nil, fmt.Errorf("settings source required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Iyzico == nil || params.Paytr == nil {
		return nil, fmt.Errorf("gateway clients required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		settings: params.Settings,
		orders:   params.Orders,
		iyzico:   params.Iyzico,
		paytr:    params.Paytr,
		logg:     params.Logger,
	}, nil
}

func (s *service) Initiate(ctx context.Context, input InitiateInput) (Outcome, error) {
	if len(input.Draft.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	switch input.Method {
	case enums.PaymentMethodBankTransfer:
		return s.initiateBankTransfer(ctx, input)
	case enums.PaymentMethodCard:
		return s.initiateCard(ctx, input)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
}

func (s *service) initiateBankTransfer(ctx context.Context, input InitiateInput) (Outcome, error) {
	if input.ReceiptURL == nil || *input.ReceiptURL == "" {
		return Failure{Message: "a payment receipt is required for bank transfer"}, nil
	}

	order, err := s.orders.CreateFromDraft(ctx, orders.CreateInput{
		Draft:         input.Draft,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		ReceiptURL:    input.ReceiptURL,
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderCode(ctx, order.OrderCode)
	s.logg.Info(logCtx, "bank transfer order created")
	return Accepted{OrderCode: order.OrderCode}, nil
}

func (s *service) initiateCard(ctx context.Context, input InitiateInput) (Outcome, error) {
	if input.Provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card provider required")
	}
	provider := *input.Provider

	settings, err := s.settings.Raw(ctx)
	if err != nil {
		return nil, err
	}
	if !providerEnabled(settings, provider) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card payment is not enabled for this provider")
	}

	logCtx := s.logg.WithProvider(ctx, provider.String())

	switch provider {
	case enums.CardProviderIyzico:
		card := input.Card.Normalize()
		if err := card.Validate(); err != nil {
			return Failure{Message: err.Error()}, nil
		}
		creds, err := resolveIyzicoCreds(settings)
		if err != nil {
			return nil, err
		}
		markup, failure, err := s.iyzico.Initiate(ctx, creds, input.IntentID, input.Draft, card, input.CallbackURL)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			s.logg.Warn(logCtx, "card gateway rejected initiation")
			return *failure, nil
		}
		s.logg.Info(logCtx, "card payment challenge issued")
		return Redirect{Kind: enums.RedirectKindHTMLChallenge, Value: markup}, nil

	case enums.CardProviderPaytr:
		creds, err := resolvePaytrCreds(settings)
		if err != nil {
			return nil, err
		}
		// Card data never feeds this path, the gateway collects it in
		// the hosted iframe.
		iframeURL, failure, err := s.paytr.Initiate(ctx, creds, input.IntentID, input.Draft, input.CallbackURL)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			s.logg.Warn(logCtx, "card gateway rejected initiation")
			return *failure, nil
		}
		s.logg.Info(logCtx, "card payment iframe issued")
		return Redirect{Kind: enums.RedirectKindIframeURL, Value: iframeURL}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown card provider")
	}
}

func (s *service) VerifyIyzicoCallback(ctx context.Context, intentID uuid.UUID, token string) (bool, error) {
	settings, err := s.settings.Raw(ctx)
	if err != nil {
		return false, err
	}
	creds, err := resolveIyzicoCreds(settings)
	if err != nil {
		return false, err
	}
	return s.iyzico.VerifyCallback(creds, intentID, token), nil
}

func (s *service) VerifyPaytrCallback(ctx context.Context, notification PaytrNotification) (bool, error) {
	settings, err := s.settings.Raw(ctx)
	if err != nil {
		return false, err
	}
	creds, err := resolvePaytrCreds(settings)
	if err != nil {
		return false, err
	}
	return s.paytr.VerifyCallback(creds, notification.MerchantOID, notification.Status, notification.TotalAmount, notification.Hash), nil
}

func (s *service) IyzicoCallbackToken(ctx context.Context, intentID uuid.UUID) (string, error) {
	settings, err := s.settings.Raw(ctx)
	if err != nil {
		return "", err
	}
	creds, err := resolveIyzicoCreds(settings)
	if err != nil {
		return "", err
	}
	return s.iyzico.CallbackToken(creds, intentID), nil
}

func providerEnabled(settings *models.PaymentSettings, provider enums.CardProvider) bool {
	return settings.CardEnabled &&
		settings.CardProvider != nil &&
		*settings.CardProvider == provider
}

func resolveIyzicoCreds(settings *models.PaymentSettings) (iyzicoCredentials, error) {
	if settings.IyzicoAPIKey == nil || settings.IyzicoSecretKey == nil {
		return iyzicoCredentials{}, pkgerrors.New(pkgerrors.CodeValidation, "iyzico credentials are not configured")
	}
	return iyzicoCredentials{
		APIKey:    *settings.IyzicoAPIKey,
		SecretKey: *settings.IyzicoSecretKey,
		Sandbox:   settings.IyzicoSandbox,
	}, nil
}

func resolvePaytrCreds(settings *models.PaymentSettings) (paytrCredentials, error) {
	if settings.PaytrMerchantID == nil || settings.PaytrMerchantKey == nil || settings.PaytrMerchantSalt == nil {
		return paytrCredentials{}, pkgerrors.New(pkgerrors.CodeValidation, "paytr credentials are not configured")
	}
	return paytrCredentials{
		MerchantID:   *settings.PaytrMerchantID,
		MerchantKey:  *settings.PaytrMerchantKey,
		MerchantSalt: *settings.PaytrMerchantSalt,
		Sandbox:      settings.PaytrSandbox,
	}, nil
}

// MerchantOID exposes the gateway-safe form of an intent id for the
// checkout wiring.
func MerchantOID(intentID uuid.UUID) string {
	return merchantOID(intentID)
}
