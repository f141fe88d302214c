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

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

type CreateTransactionRequest struct {
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	Type       string     `json:"type" binding:"required,oneof=income expense"`
	Category   string     `json:"category"`
	Note       string     `json:"note"`
	OccurredAt *time.Time `json:"occurred_at"`
}

type TransactionResponse struct {
	ID         uint    `json:"id"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	Category   string  `json:"category,omitempty"`
	Note       string  `json:"note,omitempty"`
	OccurredAt string  `json:"occurred_at"`
	ProjectID  *uint   `json:"project_id,omitempty"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         t.ID,
		Amount:     t.Amount,
		Type:       t.Type,
		Category:   t.Category,
		Note:       t.Note,
		OccurredAt: t.OccurredAt.Format(time.RFC3339),
		ProjectID:  t.ProjectID,
	}
}

// Create godoc
// @Summary Record a transaction
// @Description Record an income or expense; an expense categorized under a budget name counts against that budget
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	transaction, err := h.transactionService.Create(middleware.GetUserID(c), req.Amount, req.Type, req.Category, req.Note, occurredAt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidTransactionType) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of rows"
// @Success 200 {array} TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	transactions, err := h.transactionService.List(middleware.GetUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		response[i] = toTransactionResponse(&transactions[i])
	}
	c.JSON(http.StatusOK, response)
}

// Summary godoc
// @Summary Ledger summary
// @Description Balance plus income and outgoing totals
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Summary
// @Failure 401 {object} ErrorResponse
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	summary, err := h.transactionService.Summarize(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Delete godoc
// @Summary Delete a transaction
// @Description Removes the row and reverses any budget or project totals it affected
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.transactionService.Delete(middleware.GetUserID(c), uint(id)); err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "transaction deleted"})
}
