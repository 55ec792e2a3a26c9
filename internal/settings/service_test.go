package settings

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

type stubSettingsRepo struct {
	payment *models.PaymentSettings
	site    *models.SiteSettings
}

func (s *stubSettingsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSettingsRepo) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	if s.payment == nil {
		s.payment = &models.PaymentSettings{ID: models.PaymentSettingsID, BankTransferEnabled: true, IyzicoSandbox: true, PaytrSandbox: true}
	}
	return s.payment, nil
}

func (s *stubSettingsRepo) SavePaymentSettings(ctx context.Context, row *models.PaymentSettings) error {
	s.payment = row
	return nil
}

func (s *stubSettingsRepo) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	if s.site == nil {
		s.site = &models.SiteSettings{ID: models.SiteSettingsID}
	}
	return s.site, nil
}

func (s *stubSettingsRepo) SaveSiteSettings(ctx context.Context, row *models.SiteSettings) error {
	s.site = row
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdatePaymentRequiresProviderCredentials(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.UpdatePayment(ctx, PaymentInput{
		CardEnabled:  true,
		CardProvider: strPtr("paytr"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	view, err := svc.UpdatePayment(ctx, PaymentInput{
		CardEnabled:       true,
		CardProvider:      strPtr("paytr"),
		PaytrMerchantID:   strPtr("merchant-1"),
		PaytrMerchantKey:  strPtr("key"),
		PaytrMerchantSalt: strPtr("salt"),
		PaytrSandbox:      boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, view.CardEnabled)
	require.NotNil(t, view.CardProvider)
	assert.Equal(t, enums.CardProviderPaytr, *view.CardProvider)
}

func TestUpdatePaymentRejectsUnknownProvider(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{})
	require.NoError(t, err)

	_, err = svc.UpdatePayment(context.Background(), PaymentInput{
		CardEnabled:  true,
		CardProvider: strPtr("stripe"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPublicPaymentViewNeverSerializesSecrets(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.UpdatePayment(ctx, PaymentInput{
		BankTransferEnabled: true,
		BankName:            strPtr("Ziraat"),
		AccountHolder:       strPtr("VitalShop Ltd"),
		IBAN:                strPtr("TR000000000000000000000001"),
		CardEnabled:         true,
		CardProvider:        strPtr("iyzico"),
		IyzicoAPIKey:        strPtr("api-key-123"),
		IyzicoSecretKey:     strPtr("super-secret-value"),
	})
	require.NoError(t, err)

	public, err := svc.PublicPayment(ctx)
	require.NoError(t, err)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	payload := string(raw)
	assert.NotContains(t, payload, "super-secret-value")
	assert.NotContains(t, payload, "api-key-123")
	assert.Contains(t, payload, "TR000000000000000000000001")

	admin, err := svc.AdminPayment(ctx)
	require.NoError(t, err)
	adminRaw, err := json.Marshal(admin)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(adminRaw), "super-secret-value"))
	assert.True(t, admin.IyzicoSecretKeySet)
}

func TestCardStatusReflectsReadiness(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{})
	require.NoError(t, err)
	ctx := context.Background()

	status, err := svc.CardStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.Empty(t, status.Providers)

	_, err = svc.UpdatePayment(ctx, PaymentInput{
		CardEnabled:     true,
		CardProvider:    strPtr("iyzico"),
		IyzicoAPIKey:    strPtr("key"),
		IyzicoSecretKey: strPtr("secret"),
	})
	require.NoError(t, err)

	status, err = svc.CardStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, []enums.CardProvider{enums.CardProviderIyzico}, status.Providers)

	raw, err := json.Marshal(status)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"card_payment_enabled":true`)
	assert.Contains(t, string(raw), `"available_providers":["iyzico"]`)
}

func TestUpdateSiteRoundTrips(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{})
	require.NoError(t, err)
	ctx := context.Background()

	view, err := svc.UpdateSite(ctx, SiteInput{
		SiteTitle: "  VitalShop  ",
		Phone:     strPtr("+905551112233"),
	})
	require.NoError(t, err)
	assert.Equal(t, "VitalShop", view.SiteTitle)

	loaded, err := svc.Site(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VitalShop", loaded.SiteTitle)
	require.NotNil(t, loaded.Phone)
	assert.Equal(t, "+905551112233", *loaded.Phone)
}
