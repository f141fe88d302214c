package services

import (
	"testing"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupAchievementTestDB(t *testing.T) (*gorm.DB, *AchievementService, *PointsService) {
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

	return db, achievementService, pointsService
}

func TestAchievementService_Claim(t *testing.T) {
	db, achievementService, pointsService := setupAchievementTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	achievement := &models.Achievement{
		Name:             "First Steps",
		RequirementType:  models.RequirementTransactions,
		RequirementValue: 1,
		PointsReward:     100,
	}
	assert.NoError(t, db.Create(achievement).Error)
	assert.NoError(t, db.Create(&models.Transaction{UserID: 1, Amount: 10, Type: models.TransactionTypeExpense}).Error)

	claimed, err := achievementService.Claim(1, achievement.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First Steps", claimed.Name)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints, "claiming credits the reward")
}

func TestAchievementService_Claim_NotFound(t *testing.T) {
	_, achievementService, _ := setupAchievementTestDB(t)

	_, err := achievementService.Claim(1, 999)
	assert.Equal(t, ErrAchievementNotFound, err)
}

func TestAchievementService_Claim_RequirementsNotMet(t *testing.T) {
	db, achievementService, pointsService := setupAchievementTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	achievement := &models.Achievement{
		Name:             "Ten Transactions",
		RequirementType:  models.RequirementTransactions,
		RequirementValue: 10,
		PointsReward:     250,
	}
	assert.NoError(t, db.Create(achievement).Error)

	_, err := achievementService.Claim(1, achievement.ID)
	assert.Equal(t, ErrRequirementsNotMet, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 0, account.TotalPoints, "rejected claim must not credit")
}

func TestAchievementService_Claim_Twice(t *testing.T) {
	db, achievementService, pointsService := setupAchievementTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	achievement := &models.Achievement{
		Name:             "First Steps",
		RequirementType:  models.RequirementTransactions,
		RequirementValue: 1,
		PointsReward:     100,
	}
	assert.NoError(t, db.Create(achievement).Error)
	assert.NoError(t, db.Create(&models.Transaction{UserID: 1, Amount: 10, Type: models.TransactionTypeExpense}).Error)

	_, err := achievementService.Claim(1, achievement.ID)
	assert.NoError(t, err)

	_, err = achievementService.Claim(1, achievement.ID)
	assert.Equal(t, ErrAchievementAlreadyClaimed, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints, "second claim must not credit again")
}

func TestAchievementService_ProgressFor_SetupComplete(t *testing.T) {
	db, achievementService, _ := setupAchievementTestDB(t)

	progress, err := achievementService.ProgressFor(1, models.RequirementSetupComplete)
	assert.NoError(t, err)
	assert.Equal(t, 0, progress)

	assert.NoError(t, db.Create(&models.UserSettings{UserID: 1, FirstSetupCompleted: true, DefaultCurrency: "PHP"}).Error)

	progress, err = achievementService.ProgressFor(1, models.RequirementSetupComplete)
	assert.NoError(t, err)
	assert.Equal(t, 1, progress)
}

func TestAchievementService_ProgressFor_BudgetStreakAlwaysZero(t *testing.T) {
	_, achievementService, _ := setupAchievementTestDB(t)

	progress, err := achievementService.ProgressFor(1, models.RequirementBudgetStreak)
	assert.NoError(t, err)
	assert.Equal(t, 0, progress)
}

func TestAchievementService_CheckAndAutoClaim(t *testing.T) {
	db, achievementService, pointsService := setupAchievementTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	assert.NoError(t, db.Create(&models.Achievement{
		Name:             "First Steps",
		RequirementType:  models.RequirementTransactions,
		RequirementValue: 1,
		PointsReward:     100,
	}).Error)
	assert.NoError(t, db.Create(&models.Achievement{
		Name:             "Ten Transactions",
		RequirementType:  models.RequirementTransactions,
		RequirementValue: 10,
		PointsReward:     250,
	}).Error)
	assert.NoError(t, db.Create(&models.Transaction{UserID: 1, Amount: 10, Type: models.TransactionTypeExpense}).Error)

	err := achievementService.CheckAndAutoClaim(1, models.RequirementTransactions, 1)
	assert.NoError(t, err)

	earned, err := achievementService.EarnedByUser(1)
	assert.NoError(t, err)
	assert.Len(t, earned, 1, "only the met achievement unlocks")
	assert.Equal(t, "First Steps", earned[0].Achievement.Name)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints)

	// Running again must be a no-op.
	err = achievementService.CheckAndAutoClaim(1, models.RequirementTransactions, 1)
	assert.NoError(t, err)

	account, err = pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints)
}

// The unique pair index is what makes the loser of a racing double-claim
// fail; the driver error must come back translated so Claim can map it to
// ErrAchievementAlreadyClaimed.
func TestAchievementService_DuplicateEarnRowTranslated(t *testing.T) {
	db, _, _ := setupAchievementTestDB(t)

	assert.NoError(t, db.Create(&models.UserAchievement{UserID: 1, AchievementID: 3}).Error)

	err := db.Create(&models.UserAchievement{UserID: 1, AchievementID: 3}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
