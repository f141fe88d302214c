package repository

import (
	"errors"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
)

type AdvisorRepository struct {
	db *gorm.DB
}

func NewAdvisorRepository(db *gorm.DB) *AdvisorRepository {
	return &AdvisorRepository{db: db}
}

func (r *AdvisorRepository) FindSettings(userID uint) (*models.AdvisorSettings, error) {
	var settings models.AdvisorSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *AdvisorRepository) SaveSettings(settings *models.AdvisorSettings) error {
	return r.db.Save(settings).Error
}

func (r *AdvisorRepository) CreateSettings(settings *models.AdvisorSettings) error {
	return r.db.Create(settings).Error
}

func (r *AdvisorRepository) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// FindRecentMessages returns the most recent limit messages in
// chronological order.
func (r *AdvisorRepository) FindRecentMessages(userID uint, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *AdvisorRepository) FindAllMessages(userID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *AdvisorRepository) LogUsage(usage *models.AdvisorUsage) error {
	return r.db.Create(usage).Error
}

func (r *AdvisorRepository) CountUsageSince(userID uint, action string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AdvisorUsage{}).
		Where("user_id = ? AND action = ? AND created_at >= ?", userID, action, since).
		Count(&count).Error
	return count, err
}
