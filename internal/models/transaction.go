package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TransactionTypeIncome              = "income"
	TransactionTypeExpense             = "expense"
	TransactionTypeProjectContribution = "project-contribution"
)

type Transaction struct {
	gorm.Model
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Type       string    `gorm:"not null;index" json:"type"`
	Category   string    `gorm:"index" json:"category"`
	Note       string    `gorm:"type:text" json:"note"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	ProjectID  *uint     `gorm:"index" json:"project_id,omitempty"`
}
