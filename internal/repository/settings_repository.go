package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Create(settings *models.UserSettings) error {
	return r.db.Create(settings).Error
}

func (r *SettingsRepository) CreateInTx(tx *gorm.DB, settings *models.UserSettings) error {
	return tx.Create(settings).Error
}

func (r *SettingsRepository) FindByUserID(userID uint) (*models.UserSettings, error) {
	return findSettings(r.db, userID)
}

// FindByUserIDInTx reads through the transaction handle so reads inside an
// open transaction see its own writes.
func (r *SettingsRepository) FindByUserIDInTx(tx *gorm.DB, userID uint) (*models.UserSettings, error) {
	return findSettings(tx, userID)
}

func findSettings(db *gorm.DB, userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Update(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}

func (r *SettingsRepository) UpdateInTx(tx *gorm.DB, settings *models.UserSettings) error {
	return tx.Save(settings).Error
}
