package services

import (
	"testing"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupPointsTestDB(t *testing.T) (*gorm.DB, *PointsService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	pointsRepo := repository.NewPointsRepository(db)
	pointsService := NewPointsService(pointsRepo, db)

	return db, pointsService
}

func seedPointsAccount(t *testing.T, db *gorm.DB, account *models.PointsAccount) {
	if account.CurrentLevel == 0 {
		account.CurrentLevel = 1
	}
	if account.PointsToNextLevel == 0 {
		account.PointsToNextLevel = account.CurrentLevel * 1000
	}
	assert.NoError(t, db.Create(account).Error)
}

func TestPointsService_GetAccount_NotFound(t *testing.T) {
	_, pointsService := setupPointsTestDB(t)

	_, err := pointsService.GetAccount(42)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestPointsService_AddPoints(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})

	account, leveledUp, err := pointsService.AddPoints(1, 250, "test credit")
	assert.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Equal(t, 250, account.TotalPoints)
	assert.Equal(t, 1, account.CurrentLevel)
	assert.Equal(t, 1000, account.PointsToNextLevel)
}

func TestPointsService_AddPoints_LevelUp(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 900})

	account, leveledUp, err := pointsService.AddPoints(1, 100, "test credit")
	assert.NoError(t, err)
	assert.True(t, leveledUp)
	assert.Equal(t, 1000, account.TotalPoints)
	assert.Equal(t, 2, account.CurrentLevel)
	assert.Equal(t, 2000, account.PointsToNextLevel)
}

func TestPointsService_AddPoints_MissingAccountIsNoOp(t *testing.T) {
	_, pointsService := setupPointsTestDB(t)

	account, leveledUp, err := pointsService.AddPoints(99, 100, "test credit")
	assert.NoError(t, err)
	assert.Nil(t, account)
	assert.False(t, leveledUp)
}

func TestPointsService_AddPoints_InvalidAmount(t *testing.T) {
	_, pointsService := setupPointsTestDB(t)

	_, _, err := pointsService.AddPoints(1, 0, "test credit")
	assert.Equal(t, ErrInvalidAmount, err)
}

func TestPointsService_SpendPoints(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000, CurrentLevel: 2, PointsToNextLevel: 2000})

	account, err := pointsService.SpendPoints(1, 300, "shop purchase")
	assert.NoError(t, err)
	assert.Equal(t, 700, account.TotalPoints)
	assert.Equal(t, 2, account.CurrentLevel, "spending must not change the level")
	assert.Equal(t, 2000, account.PointsToNextLevel)
}

func TestPointsService_SpendPoints_Insufficient(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 100})

	_, err := pointsService.SpendPoints(1, 300, "shop purchase")
	assert.Equal(t, ErrInsufficientPoints, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints, "failed spend must not debit")
}

func TestPointsService_ClaimDailyReward_FirstClaim(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})

	today := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	account, awarded, err := pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.Equal(t, 60, awarded, "base 50 plus streak bonus 10")
	assert.Equal(t, 1, account.LoginStreak)
	assert.Equal(t, "2025-03-10", account.LastDailyRewardClaimed)
	assert.Equal(t, 60, account.TotalPoints)
}

func TestPointsService_ClaimDailyReward_DoubleClaim(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})

	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	_, _, err := pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)

	_, _, err = pointsService.ClaimDailyReward(1, today.Add(5*time.Hour))
	assert.Equal(t, ErrRewardAlreadyClaimed, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 60, account.TotalPoints, "rejected claim must not credit")
}

func TestPointsService_ClaimDailyReward_StreakContinues(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, awarded, err := pointsService.ClaimDailyReward(1, day1)
	assert.NoError(t, err)
	assert.Equal(t, 60, awarded)

	_, awarded, err = pointsService.ClaimDailyReward(1, day1.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.Equal(t, 70, awarded)

	account, awarded, err := pointsService.ClaimDailyReward(1, day1.AddDate(0, 0, 2))
	assert.NoError(t, err)
	assert.Equal(t, 80, awarded)
	assert.Equal(t, 3, account.LoginStreak)
	assert.Equal(t, 60+70+80, account.TotalPoints)
}

func TestPointsService_ClaimDailyReward_StreakResetsAfterGap(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{
		UserID:                 1,
		LoginStreak:            5,
		LastDailyRewardClaimed: "2025-03-01",
	})

	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	account, awarded, err := pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.Equal(t, 60, awarded, "streak restarts at 1 after a gap")
	assert.Equal(t, 1, account.LoginStreak)
}

func TestPointsService_ClaimDailyReward_BonusCapped(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{
		UserID:                 1,
		LoginStreak:            14,
		LastDailyRewardClaimed: "2025-03-09",
	})

	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	account, awarded, err := pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.Equal(t, 15, account.LoginStreak)
	assert.Equal(t, 150, awarded, "streak bonus caps at 100")
}

func TestPointsService_ClaimDailyReward_CanLevelUp(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 950})

	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	account, _, err := pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.Equal(t, 1010, account.TotalPoints)
	assert.Equal(t, 2, account.CurrentLevel)
	assert.Equal(t, 2000, account.PointsToNextLevel)
}

func TestPointsService_CanClaimDailyReward(t *testing.T) {
	db, pointsService := setupPointsTestDB(t)
	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})

	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	canClaim, _, err := pointsService.CanClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.True(t, canClaim)

	_, _, err = pointsService.ClaimDailyReward(1, today)
	assert.NoError(t, err)

	canClaim, lastClaimed, err := pointsService.CanClaimDailyReward(1, today)
	assert.NoError(t, err)
	assert.False(t, canClaim)
	assert.Equal(t, "2025-03-10", lastClaimed)

	canClaim, _, err = pointsService.CanClaimDailyReward(1, today.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.True(t, canClaim)
}
