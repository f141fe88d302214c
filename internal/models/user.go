package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string        `gorm:"uniqueIndex;not null" json:"username"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"-"`
	Projects     []Project     `gorm:"foreignKey:UserID" json:"-"`
}
