package services

import (
	"testing"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupSettingsTestDB(t *testing.T) (*gorm.DB, *SettingsService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	achievementRepo := repository.NewAchievementRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	pointsService := NewPointsService(pointsRepo, db)
	achievementService := NewAchievementService(achievementRepo, transactionRepo, projectRepo, settingsRepo, pointsService, db)
	settingsService := NewSettingsService(settingsRepo, achievementService)

	return db, settingsService
}

func TestSettingsService_Get_ProvisionsDefaults(t *testing.T) {
	_, settingsService := setupSettingsTestDB(t)

	settings, err := settingsService.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, "PHP", settings.DefaultCurrency)
	assert.False(t, settings.FirstSetupCompleted)

	again, err := settingsService.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID, "second access reuses the provisioned row")
}

func TestSettingsService_Update(t *testing.T) {
	_, settingsService := setupSettingsTestDB(t)

	settings, err := settingsService.Update(1, "USD", 25000)
	assert.NoError(t, err)
	assert.Equal(t, "USD", settings.DefaultCurrency)
	assert.Equal(t, 25000.0, settings.MonthlyBudget)

	settings, err = settingsService.Update(1, "", 10000)
	assert.NoError(t, err)
	assert.Equal(t, "USD", settings.DefaultCurrency, "empty currency keeps the previous value")
	assert.Equal(t, 10000.0, settings.MonthlyBudget)
}

func TestSettingsService_CompleteFirstSetup(t *testing.T) {
	db, settingsService := setupSettingsTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	assert.NoError(t, db.Create(&models.Achievement{
		Name:             "All Set",
		RequirementType:  models.RequirementSetupComplete,
		RequirementValue: 1,
		PointsReward:     200,
	}).Error)

	settings, err := settingsService.CompleteFirstSetup(1, "PHP", 20000)
	assert.NoError(t, err)
	assert.True(t, settings.FirstSetupCompleted)

	var account models.PointsAccount
	assert.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
	assert.Equal(t, 200, account.TotalPoints, "finishing setup unlocks the achievement")
}
