package models

import (
	"time"

	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// PaymentSettingsID is the fixed primary key of the singleton row.
const PaymentSettingsID = "payment_settings"

// PaymentSettings is a singleton holding the payment configuration an
// admin manages at runtime. Gateway credentials are stored here and
// must never appear in public API responses.
type PaymentSettings struct {
	ID                  string              `gorm:"column:id;primaryKey"`
	BankTransferEnabled bool                `gorm:"column:bank_transfer_enabled;not null;default:true"`
	BankName            *string             `gorm:"column:bank_name"`
	AccountHolder       *string             `gorm:"column:account_holder"`
	IBAN                *string             `gorm:"column:iban"`
	CardEnabled         bool                `gorm:"column:card_enabled;not null;default:false"`
	CardProvider        *enums.CardProvider `gorm:"column:card_provider"`
	IyzicoAPIKey        *string             `gorm:"column:iyzico_api_key"`
	IyzicoSecretKey     *string             `gorm:"column:iyzico_secret_key"`
	IyzicoSandbox       bool                `gorm:"column:iyzico_sandbox;not null;default:true"`
	PaytrMerchantID     *string             `gorm:"column:paytr_merchant_id"`
	PaytrMerchantKey    *string             `gorm:"column:paytr_merchant_key"`
	PaytrMerchantSalt   *string             `gorm:"column:paytr_merchant_salt"`
	PaytrSandbox        bool                `gorm:"column:paytr_sandbox;not null;default:true"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
