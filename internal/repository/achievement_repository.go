package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
)

type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) Create(achievement *models.Achievement) error {
	return r.db.Create(achievement).Error
}

func (r *AchievementRepository) FindAll() ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.Order("requirement_type, requirement_value").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) FindByID(id uint) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.db.First(&achievement, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindByName(name string) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.db.Where("name = ?", name).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindByType(requirementType string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.Where("requirement_type = ?", requirementType).
		Order("requirement_value").
		Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) Update(achievement *models.Achievement) error {
	return r.db.Save(achievement).Error
}

func (r *AchievementRepository) FindEarnedByUser(userID uint) ([]models.UserAchievement, error) {
	var earned []models.UserAchievement
	err := r.db.Where("user_id = ?", userID).Preload("Achievement").Find(&earned).Error
	return earned, err
}

func (r *AchievementRepository) ExistsUserAchievement(userID, achievementID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

func (r *AchievementRepository) CreateUserAchievementInTx(tx *gorm.DB, earned *models.UserAchievement) error {
	return tx.Create(earned).Error
}
