package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CharacterGeorge = "george"
	CharacterPeppa  = "peppa"

	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	AdvisorActionGeneratePlan = "generate_plan"
	AdvisorActionChat         = "chat"
)

// AdvisorSettings is the per-user advisor singleton. A user with no row has
// not selected a character yet.
type AdvisorSettings struct {
	gorm.Model
	UserID              uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	SelectedCharacter   string     `gorm:"not null" json:"selected_character"`
	IsEnabled           bool       `gorm:"not null;default:false" json:"is_enabled"`
	MonthlyIncome       *float64   `json:"monthly_income,omitempty"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboarding_completed"`
	OnboardingData      string     `gorm:"type:text" json:"onboarding_data,omitempty"`
	FinancialPlan       string     `gorm:"type:text" json:"financial_plan,omitempty"`
	PlanCreatedAt       *time.Time `json:"plan_created_at,omitempty"`
}

// ChatMessage is an append-only, user-scoped transcript row.
type ChatMessage struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Role    string `gorm:"not null" json:"role"`
	Content string `gorm:"type:text;not null" json:"content"`
}

// AdvisorUsage logs one row per upstream call; rate limiting counts rows
// inside a rolling window.
type AdvisorUsage struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Action     string `gorm:"not null;index" json:"action"`
	TokensUsed int    `gorm:"not null;default:0" json:"tokens_used"`
}
