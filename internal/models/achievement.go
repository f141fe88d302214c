package models

import (
	"gorm.io/gorm"
)

const (
	RequirementTransactions      = "transactions"
	RequirementLoginStreak       = "login_streak"
	RequirementProjectsCompleted = "projects_completed"
	RequirementSetupComplete     = "setup_complete"
	RequirementBudgetStreak      = "budget_streak"
)

// Achievement is shared catalog data; one row per achievement definition.
type Achievement struct {
	gorm.Model
	Name             string `gorm:"uniqueIndex;not null" json:"name"`
	Description      string `gorm:"type:text" json:"description"`
	Icon             string `json:"icon,omitempty"`
	RequirementType  string `gorm:"not null;index" json:"requirement_type"`
	RequirementValue int    `gorm:"not null" json:"requirement_value"`
	PointsReward     int    `gorm:"not null" json:"points_reward"`
}

type UserAchievement struct {
	gorm.Model
	UserID        uint        `gorm:"not null;index:idx_user_achievements_pair,unique" json:"user_id"`
	AchievementID uint        `gorm:"not null;index:idx_user_achievements_pair,unique" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}
