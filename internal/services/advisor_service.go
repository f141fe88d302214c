package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/advisor"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
)

var (
	ErrCharacterNotSelected = errors.New("no advisor character selected")
	ErrInvalidCharacter     = errors.New("unknown advisor character")
	ErrOnboardingIncomplete = errors.New("advisor onboarding not completed")
	ErrPlanLimitReached     = errors.New("daily plan generation limit reached")
	ErrChatLimitReached     = errors.New("hourly chat limit reached")
)

// chatContextWindow bounds how much transcript is replayed per request;
// older messages are silently dropped.
const chatContextWindow = 20

// Completer is the slice of the gateway client the service needs; tests
// substitute a stub.
type Completer interface {
	Complete(ctx context.Context, messages []advisor.Message) (string, int, error)
}

type AdvisorService struct {
	advisorRepo     *repository.AdvisorRepository
	transactionRepo *repository.TransactionRepository
	budgetRepo      *repository.BudgetRepository
	completer       Completer
	plansPerDay     int
	chatsPerHour    int
}

func NewAdvisorService(
	advisorRepo *repository.AdvisorRepository,
	transactionRepo *repository.TransactionRepository,
	budgetRepo *repository.BudgetRepository,
	completer Completer,
	plansPerDay, chatsPerHour int,
) *AdvisorService {
	return &AdvisorService{
		advisorRepo:     advisorRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		completer:       completer,
		plansPerDay:     plansPerDay,
		chatsPerHour:    chatsPerHour,
	}
}

func (s *AdvisorService) Settings(userID uint) (*models.AdvisorSettings, error) {
	return s.advisorRepo.FindSettings(userID)
}

func (s *AdvisorService) ChatHistory(userID uint) ([]models.ChatMessage, error) {
	return s.advisorRepo.FindAllMessages(userID)
}

// SelectCharacter is allowed from any state; re-selecting restarts
// onboarding.
func (s *AdvisorService) SelectCharacter(userID uint, character string) (*models.AdvisorSettings, error) {
	if character != models.CharacterGeorge && character != models.CharacterPeppa {
		return nil, ErrInvalidCharacter
	}

	settings, err := s.advisorRepo.FindSettings(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &models.AdvisorSettings{
			UserID:            userID,
			SelectedCharacter: character,
		}
		if err := s.advisorRepo.CreateSettings(settings); err != nil {
			return nil, err
		}
		return settings, nil
	}

	settings.SelectedCharacter = character
	settings.IsEnabled = false
	settings.OnboardingCompleted = false
	if err := s.advisorRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GeneratePlan completes onboarding: it asks the gateway for a monthly
// financial plan built from the user's snapshot and persists the result.
// Capped at plansPerDay calls per rolling 24 hours.
func (s *AdvisorService) GeneratePlan(ctx context.Context, userID uint, monthlyIncome float64, onboardingAnswers json.RawMessage) (string, error) {
	if monthlyIncome <= 0 {
		return "", ErrInvalidAmount
	}

	settings, err := s.advisorRepo.FindSettings(userID)
	if err != nil {
		return "", err
	}
	if settings == nil {
		return "", ErrCharacterNotSelected
	}

	count, err := s.advisorRepo.CountUsageSince(userID, models.AdvisorActionGeneratePlan, time.Now().Add(-24*time.Hour))
	if err != nil {
		return "", err
	}
	if count >= int64(s.plansPerDay) {
		return "", ErrPlanLimitReached
	}

	systemPrompt, err := s.buildSystemPrompt(userID, settings, monthlyIncome, onboardingAnswers)
	if err != nil {
		return "", err
	}
	systemPrompt += fmt.Sprintf(`

The user has completed onboarding. Generate a comprehensive 1-month financial plan based on their income of %.2f and the following information:
%s

Create a detailed budget breakdown with:
- Essential expenses (rent, utilities, food, transportation)
- Savings goals (emergency fund, future goals)
- Discretionary spending (entertainment, shopping)
- Recommendations to avoid overspending
- Tips specific to their financial behaviors

Return your response as a detailed financial plan with specific amounts and percentages.`, monthlyIncome, string(onboardingAnswers))

	messages := []advisor.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Please create my monthly financial plan."},
	}

	plan, tokens, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	now := time.Now()
	settings.FinancialPlan = plan
	settings.MonthlyIncome = &monthlyIncome
	settings.OnboardingData = string(onboardingAnswers)
	settings.OnboardingCompleted = true
	settings.IsEnabled = true
	settings.PlanCreatedAt = &now
	if err := s.advisorRepo.SaveSettings(settings); err != nil {
		return "", err
	}

	s.logUsage(userID, models.AdvisorActionGeneratePlan, tokens)

	return plan, nil
}

// Chat relays one user message. The request context is the system prompt
// plus the most recent chatContextWindow transcript messages. Capped at
// chatsPerHour calls per rolling hour.
func (s *AdvisorService) Chat(ctx context.Context, userID uint, message string) (string, error) {
	settings, err := s.advisorRepo.FindSettings(userID)
	if err != nil {
		return "", err
	}
	if settings == nil {
		return "", ErrCharacterNotSelected
	}
	if !settings.OnboardingCompleted {
		return "", ErrOnboardingIncomplete
	}

	count, err := s.advisorRepo.CountUsageSince(userID, models.AdvisorActionChat, time.Now().Add(-time.Hour))
	if err != nil {
		return "", err
	}
	if count >= int64(s.chatsPerHour) {
		return "", ErrChatLimitReached
	}

	income := 0.0
	if settings.MonthlyIncome != nil {
		income = *settings.MonthlyIncome
	}
	systemPrompt, err := s.buildSystemPrompt(userID, settings, income, json.RawMessage(settings.OnboardingData))
	if err != nil {
		return "", err
	}

	history, err := s.advisorRepo.FindRecentMessages(userID, chatContextWindow)
	if err != nil {
		return "", err
	}

	if err := s.advisorRepo.CreateMessage(&models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleUser,
		Content: message,
	}); err != nil {
		return "", err
	}

	messages := make([]advisor.Message, 0, len(history)+2)
	messages = append(messages, advisor.Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, advisor.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, advisor.Message{Role: "user", Content: message})

	reply, tokens, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if err := s.advisorRepo.CreateMessage(&models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
	}); err != nil {
		return "", err
	}

	s.logUsage(userID, models.AdvisorActionChat, tokens)

	return reply, nil
}

func (s *AdvisorService) buildSystemPrompt(userID uint, settings *models.AdvisorSettings, monthlyIncome float64, onboardingData json.RawMessage) (string, error) {
	personality := "You are Peppa, a caring and wise financial advisor. You're thoughtful, encouraging, and always know how to make finances fun and easy to understand! You like to say things like 'Lovely!' and 'Well done!'"
	characterName := "Peppa"
	if settings.SelectedCharacter == models.CharacterGeorge {
		personality = "You are George, a friendly and enthusiastic financial advisor. You're energetic, positive, and love to help people achieve their financial goals! You often use phrases like 'Brilliant!' and 'Let's do this!'"
		characterName = "George"
	}

	transactions, err := s.transactionRepo.FindByUser(userID, 10)
	if err != nil {
		return "", err
	}
	budgets, err := s.budgetRepo.FindByUser(userID)
	if err != nil {
		return "", err
	}

	transactionsJSON, err := json.Marshal(transactions)
	if err != nil {
		return "", err
	}
	budgetsJSON, err := json.Marshal(budgets)
	if err != nil {
		return "", err
	}

	incomeStr := "Not set"
	if monthlyIncome > 0 {
		incomeStr = fmt.Sprintf("%.2f", monthlyIncome)
	}
	answers := string(onboardingData)
	if answers == "" {
		answers = "{}"
	}

	return fmt.Sprintf(`%s

You are helping a user manage their finances for the month. Here's what you know:
- Monthly Income: %s
- Onboarding Data: %s
- Recent Transactions: %s
- Active Budgets: %s

Your job is to:
1. Provide personalized financial advice based on the user's data
2. Help them create a monthly budget plan that minimizes overspending
3. Consider their behavior, priorities, needs vs wants
4. Be encouraging and supportive
5. Give specific, actionable recommendations

Always respond in a friendly, conversational tone as %s.`, personality, incomeStr, answers, transactionsJSON, budgetsJSON, characterName), nil
}

func (s *AdvisorService) logUsage(userID uint, action string, tokens int) {
	err := s.advisorRepo.LogUsage(&models.AdvisorUsage{
		UserID:     userID,
		Action:     action,
		TokensUsed: tokens,
	})
	if err != nil {
		log.Printf("Failed to record advisor usage for user %d: %v", userID, err)
	}
}
