package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/itsmeter/piggy-point-plan/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPointsRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	pointsRepo := repository.NewPointsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	pointsService := services.NewPointsService(pointsRepo, db)
	achievementService := services.NewAchievementService(achievementRepo, transactionRepo, projectRepo, settingsRepo, pointsService, db)
	handler := NewPointsHandler(pointsService, achievementService)

	router := gin.New()
	authed := router.Group("/", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("username", "tester")
	})
	authed.POST("/points/daily-reward", handler.ClaimDailyReward)

	return db, router
}

func TestPointsHandler_ClaimDailyReward_UnlocksStreakAchievements(t *testing.T) {
	db, router := setupPointsRouter(t)

	require.NoError(t, db.Create(&models.PointsAccount{UserID: 1, CurrentLevel: 1, PointsToNextLevel: 1000}).Error)
	achievement := &models.Achievement{
		Name:             "Showed Up",
		RequirementType:  models.RequirementLoginStreak,
		RequirementValue: 1,
		PointsReward:     100,
	}
	require.NoError(t, db.Create(achievement).Error)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/points/daily-reward", nil)
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body DailyRewardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 60, body.PointsAwarded)
	assert.Equal(t, 1, body.LoginStreak)

	var earned int64
	require.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", 1, achievement.ID).Count(&earned).Error)
	assert.Equal(t, int64(1), earned, "a qualifying streak unlocks without a manual claim")

	var account models.PointsAccount
	require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
	assert.Equal(t, 160, account.TotalPoints, "daily reward plus the unlocked achievement reward")
}
