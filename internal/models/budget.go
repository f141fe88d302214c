package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BudgetTypeMonthly = "monthly"
	BudgetTypeProject = "project"

	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Budget names double as expense categories: an expense transaction whose
// category equals a budget's name is counted against that budget's spent
// amount.
type Budget struct {
	gorm.Model
	UserID       uint       `gorm:"not null;index:idx_budgets_user_name,unique" json:"user_id"`
	Name         string     `gorm:"not null;index:idx_budgets_user_name,unique" json:"name"`
	TargetAmount float64    `gorm:"not null" json:"target_amount"`
	SpentAmount  float64    `gorm:"not null;default:0" json:"spent_amount"`
	Type         string     `gorm:"not null;default:monthly" json:"type"`
	Status       string     `gorm:"not null;default:active;index" json:"status"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}
