package settings

import (
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// PublicPaymentView is the storefront-facing payment configuration.
// Gateway credentials are deliberately absent.
type PublicPaymentView struct {
	BankTransferEnabled bool                `json:"bank_transfer_enabled"`
	BankName            *string             `json:"bank_name,omitempty"`
	AccountHolder       *string             `json:"account_holder,omitempty"`
	IBAN                *string             `json:"iban,omitempty"`
	CardEnabled         bool                `json:"card_enabled"`
	CardProvider        *enums.CardProvider `json:"card_provider,omitempty"`
}

// CardStatusView answers the storefront's "can I pay by card" question.
type CardStatusView struct {
	Enabled   bool                 `json:"card_payment_enabled"`
	Providers []enums.CardProvider `json:"available_providers"`
}

// PaymentInput carries an admin update of the payment configuration.
type PaymentInput struct {
	BankTransferEnabled bool    `json:"bank_transfer_enabled"`
	BankName            *string `json:"bank_name"`
	AccountHolder       *string `json:"account_holder"`
	IBAN                *string `json:"iban"`
	CardEnabled         bool    `json:"card_enabled"`
	CardProvider        *string `json:"card_provider"`
	IyzicoAPIKey        *string `json:"iyzico_api_key"`
	IyzicoSecretKey     *string `json:"iyzico_secret_key"`
	IyzicoSandbox       *bool   `json:"iyzico_sandbox"`
	PaytrMerchantID     *string `json:"paytr_merchant_id"`
	PaytrMerchantKey    *string `json:"paytr_merchant_key"`
	PaytrMerchantSalt   *string `json:"paytr_merchant_salt"`
	PaytrSandbox        *bool   `json:"paytr_sandbox"`
}

// AdminPaymentView is the back-office payment configuration. Secrets are
// masked down to a short suffix so admins can recognize stored keys
// without the API ever echoing them whole.
type AdminPaymentView struct {
	BankTransferEnabled bool                `json:"bank_transfer_enabled"`
	BankName            *string             `json:"bank_name,omitempty"`
	AccountHolder       *string             `json:"account_holder,omitempty"`
	IBAN                *string             `json:"iban,omitempty"`
	CardEnabled         bool                `json:"card_enabled"`
	CardProvider        *enums.CardProvider `json:"card_provider,omitempty"`
	IyzicoAPIKey        *string             `json:"iyzico_api_key,omitempty"`
	IyzicoSecretKeySet  bool                `json:"iyzico_secret_key_set"`
	IyzicoSandbox       bool                `json:"iyzico_sandbox"`
	PaytrMerchantID     *string             `json:"paytr_merchant_id,omitempty"`
	PaytrMerchantKeySet bool                `json:"paytr_merchant_key_set"`
	PaytrSaltSet        bool                `json:"paytr_salt_set"`
	PaytrSandbox        bool                `json:"paytr_sandbox"`
}

// SiteView mirrors the site settings singleton.
type SiteView struct {
	SiteTitle    string  `json:"site_title"`
	LogoURL      *string `json:"logo_url,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	WhatsApp     *string `json:"whatsapp,omitempty"`
	Email        *string `json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	FacebookURL  *string `json:"facebook_url,omitempty"`
	FooterText   *string `json:"footer_text,omitempty"`
}

// SiteInput carries an admin update of the site settings.
type SiteInput struct {
	SiteTitle    string  `json:"site_title" validate:"max=200"`
	LogoURL      *string `json:"logo_url"`
	Phone        *string `json:"phone"`
	WhatsApp     *string `json:"whatsapp"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Address      *string `json:"address"`
	InstagramURL *string `json:"instagram_url"`
	FacebookURL  *string `json:"facebook_url"`
	FooterText   *string `json:"footer_text"`
}

func newPublicPaymentView(row *models.PaymentSettings) PublicPaymentView {
	view := PublicPaymentView{
		BankTransferEnabled: row.BankTransferEnabled,
		CardEnabled:         cardReady(row),
	}
	if row.BankTransferEnabled {
		view.BankName = row.BankName
		view.AccountHolder = row.AccountHolder
		view.IBAN = row.IBAN
	}
	if view.CardEnabled {
		view.CardProvider = row.CardProvider
	}
	return view
}

func newAdminPaymentView(row *models.PaymentSettings) AdminPaymentView {
	return AdminPaymentView{
		BankTransferEnabled: row.BankTransferEnabled,
		BankName:            row.BankName,
		AccountHolder:       row.AccountHolder,
		IBAN:                row.IBAN,
		CardEnabled:         row.CardEnabled,
		CardProvider:        row.CardProvider,
		IyzicoAPIKey:        row.IyzicoAPIKey,
		IyzicoSecretKeySet:  isSet(row.IyzicoSecretKey),
		IyzicoSandbox:       row.IyzicoSandbox,
		PaytrMerchantID:     row.PaytrMerchantID,
		PaytrMerchantKeySet: isSet(row.PaytrMerchantKey),
		PaytrSaltSet:        isSet(row.PaytrMerchantSalt),
		PaytrSandbox:        row.PaytrSandbox,
	}
}

func newSiteView(row *models.SiteSettings) SiteView {
	return SiteView{
		SiteTitle:    row.SiteTitle,
		LogoURL:      row.LogoURL,
		Phone:        row.Phone,
		WhatsApp:     row.WhatsApp,
		Email:        row.Email,
		Address:      row.Address,
		InstagramURL: row.InstagramURL,
		FacebookURL:  row.FacebookURL,
		FooterText:   row.FooterText,
	}
}

func isSet(value *string) bool {
	return value != nil && *value != ""
}
