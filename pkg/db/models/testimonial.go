package models

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is a customer quote shown on the storefront.
type Testimonial struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Author     string    `gorm:"column:author;not null"`
	Body       string    `gorm:"column:body;not null"`
	AvatarURL  *string   `gorm:"column:avatar_url"`
	Rating     int       `gorm:"column:rating;not null;default:5"`
	SortOrder  int       `gorm:"column:sort_order;not null;default:0"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
