package models

import (
	"gorm.io/gorm"
)

// UserSettings is a per-user singleton holding the active cosmetic
// selections and onboarding defaults.
type UserSettings struct {
	gorm.Model
	UserID              uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	ActiveThemeID       *uint   `json:"active_theme_id,omitempty"`
	ActiveFrameID       *uint   `json:"active_frame_id,omitempty"`
	ActiveIconID        *uint   `json:"active_icon_id,omitempty"`
	ActiveBackgroundID  *uint   `json:"active_background_id,omitempty"`
	FirstSetupCompleted bool    `gorm:"not null;default:false" json:"first_setup_completed"`
	DefaultCurrency     string  `gorm:"not null;default:PHP" json:"default_currency"`
	MonthlyBudget       float64 `gorm:"not null;default:0" json:"monthly_budget"`
}
