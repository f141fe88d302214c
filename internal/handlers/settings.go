package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

type SettingsResponse struct {
	ActiveThemeID       *uint   `json:"active_theme_id,omitempty"`
	ActiveFrameID       *uint   `json:"active_frame_id,omitempty"`
	ActiveIconID        *uint   `json:"active_icon_id,omitempty"`
	ActiveBackgroundID  *uint   `json:"active_background_id,omitempty"`
	FirstSetupCompleted bool    `json:"first_setup_completed"`
	DefaultCurrency     string  `json:"default_currency"`
	MonthlyBudget       float64 `json:"monthly_budget"`
}

type UpdateSettingsRequest struct {
	DefaultCurrency string  `json:"default_currency" binding:"required,len=3"`
	MonthlyBudget   float64 `json:"monthly_budget" binding:"gte=0"`
}

func toSettingsResponse(s *models.UserSettings) SettingsResponse {
	return SettingsResponse{
		ActiveThemeID:       s.ActiveThemeID,
		ActiveFrameID:       s.ActiveFrameID,
		ActiveIconID:        s.ActiveIconID,
		ActiveBackgroundID:  s.ActiveBackgroundID,
		FirstSetupCompleted: s.FirstSetupCompleted,
		DefaultCurrency:     s.DefaultCurrency,
		MonthlyBudget:       s.MonthlyBudget,
	}
}

// Get godoc
// @Summary Get user settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Failure 401 {object} ErrorResponse
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// Update godoc
// @Summary Update user settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := h.settingsService.Update(middleware.GetUserID(c), req.DefaultCurrency, req.MonthlyBudget)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// CompleteFirstSetup godoc
// @Summary Mark first-time setup as complete
// @Description Stores the onboarding defaults and makes the setup achievement claimable
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Onboarding defaults"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /settings/first-setup [post]
func (h *SettingsHandler) CompleteFirstSetup(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := h.settingsService.CompleteFirstSetup(middleware.GetUserID(c), req.DefaultCurrency, req.MonthlyBudget)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}
