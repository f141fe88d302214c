package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type BudgetHandler struct {
	budgetService *services.BudgetService
}

func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type CreateBudgetRequest struct {
	Name         string     `json:"name" binding:"required"`
	TargetAmount float64    `json:"target_amount" binding:"required,gt=0"`
	Type         string     `json:"type" binding:"omitempty,oneof=monthly project"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

type UpdateBudgetRequest struct {
	TargetAmount float64    `json:"target_amount" binding:"required,gt=0"`
	EndDate      *time.Time `json:"end_date"`
}

type SetBudgetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed archived"`
}

type BudgetResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	SpentAmount  float64 `json:"spent_amount"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date,omitempty"`
}

func toBudgetResponse(b *models.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:           b.ID,
		Name:         b.Name,
		TargetAmount: b.TargetAmount,
		SpentAmount:  b.SpentAmount,
		Type:         b.Type,
		Status:       b.Status,
		StartDate:    b.StartDate.Format("2006-01-02"),
	}
	if b.EndDate != nil {
		resp.EndDate = b.EndDate.Format("2006-01-02")
	}
	return resp
}

// Create godoc
// @Summary Create a budget
// @Description The budget name doubles as the expense category it tracks
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	budget, err := h.budgetService.Create(middleware.GetUserID(c), req.Name, req.TargetAmount, req.Type, startDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBudgetNameTaken):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// List godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	budgets, err := h.budgetService.List(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	response := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		response[i] = toBudgetResponse(&budgets[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body UpdateBudgetRequest true "Changes"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	budget, err := h.budgetService.Update(middleware.GetUserID(c), uint(id), req.TargetAmount, req.EndDate)
	if err != nil {
		h.writeBudgetError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// SetStatus godoc
// @Summary Change budget status
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body SetBudgetStatusRequest true "Status"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /budgets/{id}/status [put]
func (h *BudgetHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req SetBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	budget, err := h.budgetService.SetStatus(middleware.GetUserID(c), uint(id), req.Status)
	if err != nil {
		h.writeBudgetError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Delete godoc
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.budgetService.Delete(middleware.GetUserID(c), uint(id)); err != nil {
		h.writeBudgetError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "budget deleted"})
}

func (h *BudgetHandler) writeBudgetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBudgetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
