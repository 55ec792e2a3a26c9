package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

// Service exposes the payment and site settings singletons.
type Service interface {
	PublicPayment(ctx context.Context) (*PublicPaymentView, error)
	CardStatus(ctx context.Context) (*CardStatusView, error)
	AdminPayment(ctx context.Context) (*AdminPaymentView, error)
	UpdatePayment(ctx context.Context, input PaymentInput) (*AdminPaymentView, error)
	Site(ctx context.Context) (*SiteView, error)
	UpdateSite(ctx context.Context, input SiteInput) (*SiteView, error)

	// Raw returns the stored payment settings including credentials.
	// It exists for the payment gateway wiring and must never feed an
	// API response directly.
	Raw(ctx context.Context) (*models.PaymentSettings, error)
}

type service struct {
	repo Repository
}

// NewService builds the settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PublicPayment(ctx context.Context) (*PublicPaymentView, error) {
	row, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}
	view := newPublicPaymentView(row)
	return &view, nil
}

func (s *service) CardStatus(ctx context.Context) (*CardStatusView, error) {
	row, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}
	view := CardStatusView{Enabled: cardReady(row), Providers: []enums.CardProvider{}}
	if view.Enabled {
		view.Providers = append(view.Providers, *row.CardProvider)
	}
	return &view, nil
}

func (s *service) AdminPayment(ctx context.Context) (*AdminPaymentView, error) {
	row, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}
	view := newAdminPaymentView(row)
	return &view, nil
}

func (s *service) UpdatePayment(ctx context.Context, input PaymentInput) (*AdminPaymentView, error) {
	row, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}

	row.BankTransferEnabled = input.BankTransferEnabled
	row.BankName = input.BankName
	row.AccountHolder = input.AccountHolder
	row.IBAN = input.IBAN
	row.CardEnabled = input.CardEnabled

	if input.CardProvider != nil && strings.TrimSpace(*input.CardProvider) != "" {
		provider, err := enums.ParseCardProvider(strings.TrimSpace(*input.CardProvider))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		row.CardProvider = &provider
	} else if input.CardEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card provider required when card payments are enabled")
	} else {
		row.CardProvider = nil
	}

	applySecret(&row.IyzicoAPIKey, input.IyzicoAPIKey)
	applySecret(&row.IyzicoSecretKey, input.IyzicoSecretKey)
	applySecret(&row.PaytrMerchantID, input.PaytrMerchantID)
	applySecret(&row.PaytrMerchantKey, input.PaytrMerchantKey)
	applySecret(&row.PaytrMerchantSalt, input.PaytrMerchantSalt)
	if input.IyzicoSandbox != nil {
		row.IyzicoSandbox = *input.IyzicoSandbox
	}
	if input.PaytrSandbox != nil {
		row.PaytrSandbox = *input.PaytrSandbox
	}

	if input.CardEnabled && !providerCredentialsPresent(row) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("missing %s credentials", *row.CardProvider))
	}

	if err := s.repo.SavePaymentSettings(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving payment settings")
	}

	view := newAdminPaymentView(row)
	return &view, nil
}

func (s *service) Site(ctx context.Context) (*SiteView, error) {
	row, err := s.repo.GetSiteSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading site settings")
	}
	view := newSiteView(row)
	return &view, nil
}

func (s *service) UpdateSite(ctx context.Context, input SiteInput) (*SiteView, error) {
	row, err := s.repo.GetSiteSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading site settings")
	}

	row.SiteTitle = strings.TrimSpace(input.SiteTitle)
	row.LogoURL = input.LogoURL
	row.Phone = input.Phone
	row.WhatsApp = input.WhatsApp
	row.Email = input.Email
	row.Address = input.Address
	row.InstagramURL = input.InstagramURL
	row.FacebookURL = input.FacebookURL
	row.FooterText = input.FooterText

	if err := s.repo.SaveSiteSettings(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving site settings")
	}

	view := newSiteView(row)
	return &view, nil
}

func (s *service) Raw(ctx context.Context) (*models.PaymentSettings, error) {
	return s.loadPayment(ctx)
}

func (s *service) loadPayment(ctx context.Context) (*models.PaymentSettings, error) {
	row, err := s.repo.GetPaymentSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment settings")
	}
	return row, nil
}

// cardReady reports whether card checkout can actually run: the switch
// is on, a provider is chosen, and its credentials are stored.
func cardReady(row *models.PaymentSettings) bool {
	return row.CardEnabled && row.CardProvider != nil && providerCredentialsPresent(row)
}

func providerCredentialsPresent(row *models.PaymentSettings) bool {
	if row.CardProvider == nil {
		return false
	}
	switch *row.CardProvider {
	case enums.CardProviderIyzico:
		return isSet(row.IyzicoAPIKey) && isSet(row.IyzicoSecretKey)
	case enums.CardProviderPaytr:
		return isSet(row.PaytrMerchantID) && isSet(row.PaytrMerchantKey) && isSet(row.PaytrMerchantSalt)
	default:
		return false
	}
}

func applySecret(target **string, input *string) {
	if input == nil {
		return
	}
	if *input == "" {
		*target = nil
		return
	}
	value := *input
	*target = &value
}
