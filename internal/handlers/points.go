package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type PointsHandler struct {
	pointsService      *services.PointsService
	achievementService *services.AchievementService
}

func NewPointsHandler(pointsService *services.PointsService, achievementService *services.AchievementService) *PointsHandler {
	return &PointsHandler{
		pointsService:      pointsService,
		achievementService: achievementService,
	}
}

type PointsAccountResponse struct {
	TotalPoints            int    `json:"total_points"`
	CurrentLevel           int    `json:"current_level"`
	PointsToNextLevel      int    `json:"points_to_next_level"`
	LoginStreak            int    `json:"login_streak"`
	LastLoginDate          string `json:"last_login_date,omitempty"`
	LastDailyRewardClaimed string `json:"last_daily_reward_claimed,omitempty"`
}

type DailyRewardResponse struct {
	PointsAwarded int                   `json:"points_awarded"`
	LoginStreak   int                   `json:"login_streak"`
	Account       PointsAccountResponse `json:"account"`
}

type CanClaimResponse struct {
	CanClaim    bool   `json:"can_claim"`
	LastClaimed string `json:"last_claimed,omitempty"`
}

func toPointsAccountResponse(a *models.PointsAccount) PointsAccountResponse {
	return PointsAccountResponse{
		TotalPoints:            a.TotalPoints,
		CurrentLevel:           a.CurrentLevel,
		PointsToNextLevel:      a.PointsToNextLevel,
		LoginStreak:            a.LoginStreak,
		LastLoginDate:          a.LastLoginDate,
		LastDailyRewardClaimed: a.LastDailyRewardClaimed,
	}
}

// GetAccount godoc
// @Summary Get the points account
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PointsAccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /points [get]
func (h *PointsHandler) GetAccount(c *gin.Context) {
	account, err := h.pointsService.GetAccount(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPointsAccountResponse(account))
}

// ClaimDailyReward godoc
// @Summary Claim the daily reward
// @Description Awards 50 points plus a streak bonus of min(streak*10, 100); one claim per calendar day
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DailyRewardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /points/daily-reward [post]
func (h *PointsHandler) ClaimDailyReward(c *gin.Context) {
	userID := middleware.GetUserID(c)
	account, awarded, err := h.pointsService.ClaimDailyReward(userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardAlreadyClaimed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	if err := h.achievementService.CheckAndAutoClaim(userID, models.RequirementLoginStreak, account.LoginStreak); err != nil {
		log.Printf("Failed to auto-claim streak achievements for user %d: %v", userID, err)
	}

	c.JSON(http.StatusOK, DailyRewardResponse{
		PointsAwarded: awarded,
		LoginStreak:   account.LoginStreak,
		Account:       toPointsAccountResponse(account),
	})
}

// CanClaimDailyReward godoc
// @Summary Check daily reward availability
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CanClaimResponse
// @Failure 401 {object} ErrorResponse
// @Router /points/daily-reward [get]
func (h *PointsHandler) CanClaimDailyReward(c *gin.Context) {
	canClaim, lastClaimed, err := h.pointsService.CanClaimDailyReward(middleware.GetUserID(c), time.Now())
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, CanClaimResponse{CanClaim: canClaim, LastClaimed: lastClaimed})
}
