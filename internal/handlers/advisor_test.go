package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/advisor"
	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/itsmeter/piggy-point-plan/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedCompleter struct {
	reply string
}

func (c *cannedCompleter) Complete(_ context.Context, _ []advisor.Message) (string, int, error) {
	return c.reply, 42, nil
}

func setupAdvisorRouter(t *testing.T, completer services.Completer) (*services.AdvisorService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	advisorRepo := repository.NewAdvisorRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)

	advisorService := services.NewAdvisorService(advisorRepo, transactionRepo, budgetRepo, completer, 5, 50)
	handler := NewAdvisorHandler(advisorService)

	router := gin.New()
	authed := router.Group("/", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("username", "tester")
	})
	authed.POST("/advisor", handler.Invoke)

	return advisorService, router
}

func postAdvisor(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/advisor", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)
	return resp
}

func TestAdvisorHandler_Invoke_SuccessEnvelope(t *testing.T) {
	advisorService, router := setupAdvisorRouter(t, &cannedCompleter{reply: "Here is your plan."})

	_, err := advisorService.SelectCharacter(1, "peppa")
	require.NoError(t, err)

	resp := postAdvisor(router, `{"action":"generate_plan","data":{"monthly_income":5000,"onboarding_answers":{"goal":"save"}}}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body AdvisorInvokeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Here is your plan.", body.Message)
	assert.Empty(t, body.Error)
}

func TestAdvisorHandler_Invoke_FailureEnvelope(t *testing.T) {
	_, router := setupAdvisorRouter(t, &cannedCompleter{reply: "unused"})

	resp := postAdvisor(router, `{"action":"chat","data":{"message":"hi"}}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body AdvisorInvokeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Empty(t, body.Message)
	assert.NotEmpty(t, body.Error)
}
