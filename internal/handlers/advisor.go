package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/advisor"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type AdvisorHandler struct {
	advisorService *services.AdvisorService
}

func NewAdvisorHandler(advisorService *services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

type AdvisorRequest struct {
	Action string          `json:"action" binding:"required,oneof=generate_plan chat"`
	Data   json.RawMessage `json:"data" binding:"required"`
}

type GeneratePlanData struct {
	MonthlyIncome     float64         `json:"monthly_income" binding:"required,gt=0"`
	OnboardingAnswers json.RawMessage `json:"onboarding_answers" binding:"required"`
}

type ChatData struct {
	Message string `json:"message" binding:"required"`
}

// AdvisorInvokeResponse is the envelope of the advisor action endpoint:
// success carries the advisor's text in message, failure carries error.
type AdvisorInvokeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type SelectCharacterRequest struct {
	Character string `json:"character" binding:"required,oneof=george peppa"`
}

type AdvisorSettingsResponse struct {
	SelectedCharacter   string   `json:"selected_character,omitempty"`
	IsEnabled           bool     `json:"is_enabled"`
	MonthlyIncome       *float64 `json:"monthly_income,omitempty"`
	OnboardingCompleted bool     `json:"onboarding_completed"`
	FinancialPlan       string   `json:"financial_plan,omitempty"`
	PlanCreatedAt       string   `json:"plan_created_at,omitempty"`
}

type ChatMessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toAdvisorSettingsResponse(s *models.AdvisorSettings) AdvisorSettingsResponse {
	resp := AdvisorSettingsResponse{
		SelectedCharacter:   s.SelectedCharacter,
		IsEnabled:           s.IsEnabled,
		MonthlyIncome:       s.MonthlyIncome,
		OnboardingCompleted: s.OnboardingCompleted,
		FinancialPlan:       s.FinancialPlan,
	}
	if s.PlanCreatedAt != nil {
		resp.PlanCreatedAt = s.PlanCreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// Invoke godoc
// @Summary Invoke the AI financial advisor
// @Description Dispatches on action: generate_plan builds a personalized financial plan, chat continues the advisor conversation
// @Tags advisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdvisorRequest true "Advisor action"
// @Success 200 {object} AdvisorInvokeResponse
// @Failure 400 {object} AdvisorInvokeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 402 {object} AdvisorInvokeResponse
// @Failure 429 {object} AdvisorInvokeResponse
// @Failure 503 {object} AdvisorInvokeResponse
// @Router /advisor [post]
func (h *AdvisorHandler) Invoke(c *gin.Context) {
	var req AdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AdvisorInvokeResponse{Error: err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	var reply string
	var err error

	switch req.Action {
	case models.AdvisorActionGeneratePlan:
		var data GeneratePlanData
		if bindErr := json.Unmarshal(req.Data, &data); bindErr != nil || data.MonthlyIncome <= 0 {
			c.JSON(http.StatusBadRequest, AdvisorInvokeResponse{Error: "invalid generate_plan data"})
			return
		}
		reply, err = h.advisorService.GeneratePlan(c.Request.Context(), userID, data.MonthlyIncome, data.OnboardingAnswers)
	case models.AdvisorActionChat:
		var data ChatData
		if bindErr := json.Unmarshal(req.Data, &data); bindErr != nil || data.Message == "" {
			c.JSON(http.StatusBadRequest, AdvisorInvokeResponse{Error: "invalid chat data"})
			return
		}
		reply, err = h.advisorService.Chat(c.Request.Context(), userID, data.Message)
	}

	if err != nil {
		writeAdvisorError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdvisorInvokeResponse{Success: true, Message: reply})
}

// SelectCharacter godoc
// @Summary Select the advisor character
// @Description Choosing a character resets any previous onboarding state
// @Tags advisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SelectCharacterRequest true "Character"
// @Success 200 {object} AdvisorSettingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /advisor/character [post]
func (h *AdvisorHandler) SelectCharacter(c *gin.Context) {
	var req SelectCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := h.advisorService.SelectCharacter(middleware.GetUserID(c), req.Character)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCharacter) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toAdvisorSettingsResponse(settings))
}

// Settings godoc
// @Summary Get advisor settings
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdvisorSettingsResponse
// @Failure 401 {object} ErrorResponse
// @Router /advisor/settings [get]
func (h *AdvisorHandler) Settings(c *gin.Context) {
	settings, err := h.advisorService.Settings(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if settings == nil {
		c.JSON(http.StatusOK, AdvisorSettingsResponse{})
		return
	}
	c.JSON(http.StatusOK, toAdvisorSettingsResponse(settings))
}

// ChatHistory godoc
// @Summary Get the advisor chat transcript
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ChatMessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /advisor/chats [get]
func (h *AdvisorHandler) ChatHistory(c *gin.Context) {
	messages, err := h.advisorService.ChatHistory(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, ChatMessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, responses)
}

func writeAdvisorError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrCharacterNotSelected),
		errors.Is(err, services.ErrOnboardingIncomplete),
		errors.Is(err, services.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrPlanLimitReached),
		errors.Is(err, services.ErrChatLimitReached),
		errors.Is(err, advisor.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, advisor.ErrPaymentRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, advisor.ErrUnavailable), errors.Is(err, advisor.ErrEmptyCompletion):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, AdvisorInvokeResponse{Error: err.Error()})
}
