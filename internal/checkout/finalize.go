package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

const callbackStatusSuccess = "success"

// FinalizeIyzico settles a payment intent from the inline-card
// gateway's completion callback.
func (s *service) FinalizeIyzico(ctx context.Context, callback IyzicoCallback) (*IntentView, error) {
	ok, err := s.gateway.VerifyIyzicoCallback(ctx, callback.IntentID, callback.Token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "callback signature mismatch")
	}

	succeeded := strings.EqualFold(callback.Status, callbackStatusSuccess)
	return s.finalize(ctx, callback.IntentID, succeeded, callback.Message)
}

// FinalizePaytr settles a payment intent from the hosted-iframe
// gateway's notification.
func (s *service) FinalizePaytr(ctx context.Context, notification payments.PaytrNotification) (*IntentView, error) {
	ok, err := s.gateway.VerifyPaytrCallback(ctx, notification)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "callback signature mismatch")
	}

	intentID, err := payments.IntentIDFromMerchantOID(notification.MerchantOID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant oid")
	}

	succeeded := strings.EqualFold(notification.Status, callbackStatusSuccess)
	return s.finalize(ctx, intentID, succeeded, "payment failed at the gateway")
}

// IntentStatus is the client poll contract while a card challenge is
// in progress.
func (s *service) IntentStatus(ctx context.Context, id uuid.UUID) (*IntentView, error) {
	intent, err := s.findIntent(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newIntentView(intent)
	return &view, nil
}

// finalize applies a gateway verdict exactly once. Replayed callbacks
// for an already settled intent return the existing result unchanged.
func (s *service) finalize(ctx context.Context, intentID uuid.UUID, succeeded bool, failureMessage string) (*IntentView, error) {
	intent, err := s.findIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithCartToken(ctx, intent.CartToken)
	ctx = s.logg.WithProvider(ctx, intent.Provider.String())

	if intent.Status.IsFinal() {
		view := newIntentView(intent)
		return &view, nil
	}

	if !succeeded {
		message := strings.TrimSpace(failureMessage)
		if message == "" {
			message = "payment failed at the gateway"
		}
		intent.Status = enums.PaymentIntentStatusFailed
		intent.FailureMessage = &message
		if err := s.intents.Save(ctx, intent); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment intent")
		}
		s.logg.Warn(ctx, "card payment failed")
		view := newIntentView(intent)
		return &view, nil
	}

	order, err := s.orders.CreateFromDraft(ctx, orders.CreateInput{
		Draft:         intent.Draft,
		PaymentMethod: enums.PaymentMethodCard,
		CardProvider:  &intent.Provider,
	})
	if err != nil {
		return nil, err
	}
	intent.Status = enums.PaymentIntentStatusSubmitted
	intent.OrderID = &order.ID
	intent.OrderCode = &order.OrderCode
	if err := s.intents.Save(ctx, intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment intent")
	}

	if err := s.carts.Clear(ctx, intent.CartToken); err != nil {
		s.logg.Warn(ctx, "failed to clear cart after card payment: "+err.Error())
	}
	if intent.OrderCode != nil {
		ctx = s.logg.WithOrderCode(ctx, *intent.OrderCode)
	}
	s.logg.Info(ctx, "card payment finalized")

	view := newIntentView(intent)
	return &view, nil
}

func (s *service) findIntent(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error) {
	intent, err := s.intents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment intent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment intent")
	}
	return intent, nil
}

func newIntentView(intent *models.PaymentIntent) IntentView {
	return IntentView{
		ID:             intent.ID,
		Status:         intent.Status,
		OrderCode:      intent.OrderCode,
		FailureMessage: intent.FailureMessage,
	}
}
