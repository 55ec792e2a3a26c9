package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRecord is a server-held cart addressed by an opaque client token.
// An unknown token simply materializes as an empty cart on first write.
type CartRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token     string     `gorm:"column:token;not null;uniqueIndex"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
