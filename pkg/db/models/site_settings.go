package models

import "time"

// SiteSettingsID is the fixed primary key of the singleton row.
const SiteSettingsID = "site_settings"

// SiteSettings is a singleton of storefront-wide presentation fields.
type SiteSettings struct {
	ID           string    `gorm:"column:id;primaryKey"`
	SiteTitle    string    `gorm:"column:site_title;not null;default:''"`
	LogoURL      *string   `gorm:"column:logo_url"`
	Phone        *string   `gorm:"column:phone"`
	WhatsApp     *string   `gorm:"column:whatsapp"`
	Email        *string   `gorm:"column:email"`
	Address      *string   `gorm:"column:address"`
	InstagramURL *string   `gorm:"column:instagram_url"`
	FacebookURL  *string   `gorm:"column:facebook_url"`
	FooterText   *string   `gorm:"column:footer_text"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
