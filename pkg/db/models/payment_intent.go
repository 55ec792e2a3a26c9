package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

// PaymentIntent tracks a card payment from initiation to its terminal
// state. The frozen draft is what becomes the order once the gateway
// confirms, regardless of what happened to the cart in the meantime.
type PaymentIntent struct {
	ID             uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartToken      string                    `gorm:"column:cart_token;not null;index"`
	Provider       enums.CardProvider        `gorm:"column:provider;not null"`
	Status         enums.PaymentIntentStatus `gorm:"column:status;not null;default:'pending'"`
	Draft          types.OrderDraft          `gorm:"column:draft;type:jsonb;serializer:json"`
	OrderID        *uuid.UUID                `gorm:"column:order_id;type:uuid"`
	OrderCode      *string                   `gorm:"column:order_code"`
	FailureMessage *string                   `gorm:"column:failure_message"`
	ExpiresAt      time.Time                 `gorm:"column:expires_at;not null"`
	CreatedAt      time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
