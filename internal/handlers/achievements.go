package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

type AchievementResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon,omitempty"`
	RequirementType  string `json:"requirement_type"`
	RequirementValue int    `json:"requirement_value"`
	PointsReward     int    `json:"points_reward"`
}

type EarnedAchievementResponse struct {
	AchievementResponse
	EarnedAt string `json:"earned_at"`
}

type AchievementProgressResponse struct {
	AchievementID    uint `json:"achievement_id"`
	Progress         int  `json:"progress"`
	RequirementValue int  `json:"requirement_value"`
	Earned           bool `json:"earned"`
}

type ClaimAchievementResponse struct {
	Achievement   AchievementResponse `json:"achievement"`
	PointsAwarded int                 `json:"points_awarded"`
}

func toAchievementResponse(a *models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		Icon:             a.Icon,
		RequirementType:  a.RequirementType,
		RequirementValue: a.RequirementValue,
		PointsReward:     a.PointsReward,
	}
}

// List godoc
// @Summary List the achievement catalog
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AchievementResponse
// @Failure 401 {object} ErrorResponse
// @Router /achievements [get]
func (h *AchievementHandler) List(c *gin.Context) {
	achievements, err := h.achievementService.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]AchievementResponse, 0, len(achievements))
	for i := range achievements {
		responses = append(responses, toAchievementResponse(&achievements[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Earned godoc
// @Summary List achievements earned by the current user
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EarnedAchievementResponse
// @Failure 401 {object} ErrorResponse
// @Router /achievements/earned [get]
func (h *AchievementHandler) Earned(c *gin.Context) {
	earned, err := h.achievementService.EarnedByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]EarnedAchievementResponse, 0, len(earned))
	for i := range earned {
		responses = append(responses, EarnedAchievementResponse{
			AchievementResponse: toAchievementResponse(&earned[i].Achievement),
			EarnedAt:            earned[i].CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Progress godoc
// @Summary Report progress toward every achievement
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AchievementProgressResponse
// @Failure 401 {object} ErrorResponse
// @Router /achievements/progress [get]
func (h *AchievementHandler) Progress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	achievements, err := h.achievementService.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	earned, err := h.achievementService.EarnedByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	earnedSet := make(map[uint]bool, len(earned))
	for _, ua := range earned {
		earnedSet[ua.AchievementID] = true
	}

	// Progress is per requirement type, so cache it across achievements
	// sharing a type.
	progressByType := make(map[string]int)
	responses := make([]AchievementProgressResponse, 0, len(achievements))
	for i := range achievements {
		a := &achievements[i]
		progress, ok := progressByType[a.RequirementType]
		if !ok {
			progress, err = h.achievementService.ProgressFor(userID, a.RequirementType)
			if err != nil {
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
				return
			}
			progressByType[a.RequirementType] = progress
		}
		responses = append(responses, AchievementProgressResponse{
			AchievementID:    a.ID,
			Progress:         progress,
			RequirementValue: a.RequirementValue,
			Earned:           earnedSet[a.ID],
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Claim godoc
// @Summary Claim an achievement
// @Description Records the achievement and credits its points reward
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Success 200 {object} ClaimAchievementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /achievements/{id}/claim [post]
func (h *AchievementHandler) Claim(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid achievement id"})
		return
	}

	achievement, err := h.achievementService.Claim(middleware.GetUserID(c), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAchievementNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrAchievementAlreadyClaimed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrRequirementsNotMet):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ClaimAchievementResponse{
		Achievement:   toAchievementResponse(achievement),
		PointsAwarded: achievement.PointsReward,
	})
}
