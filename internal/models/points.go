package models

import (
	"gorm.io/gorm"
)

// PointsAccount holds a user's PiggyPoints balance and progression state.
// Date fields use YYYY-MM-DD strings; empty means never.
type PointsAccount struct {
	gorm.Model
	UserID                 uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints            int    `gorm:"not null;default:0" json:"total_points"`
	CurrentLevel           int    `gorm:"not null;default:1" json:"current_level"`
	PointsToNextLevel      int    `gorm:"not null;default:1000" json:"points_to_next_level"`
	LoginStreak            int    `gorm:"not null;default:0" json:"login_streak"`
	LastLoginDate          string `json:"last_login_date,omitempty"`
	LastDailyRewardClaimed string `json:"last_daily_reward_claimed,omitempty"`
}
