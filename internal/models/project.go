package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Name         string     `gorm:"not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	TargetBudget *float64   `json:"target_budget,omitempty"`
	TotalIncome  float64    `gorm:"not null;default:0" json:"total_income"`
	TotalExpense float64    `gorm:"not null;default:0" json:"total_expense"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Status       string     `gorm:"not null;default:active;index" json:"status"`
}

// ProjectContribution is an append-only log; each row is paired with a
// transaction of type project-contribution.
type ProjectContribution struct {
	gorm.Model
	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Note      string  `gorm:"type:text" json:"note"`
}
