package services

import (
	"errors"
	"log"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// Summary aggregates a user's ledger for display. Balance counts project
// contributions as outgoing money.
type Summary struct {
	Balance      float64 `json:"balance"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Count        int64   `json:"count"`
}

type TransactionService struct {
	transactionRepo    *repository.TransactionRepository
	budgetRepo         *repository.BudgetRepository
	projectRepo        *repository.ProjectRepository
	achievementService *AchievementService
	db                 *gorm.DB
}

func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	budgetRepo *repository.BudgetRepository,
	projectRepo *repository.ProjectRepository,
	achievementService *AchievementService,
	db *gorm.DB,
) *TransactionService {
	return &TransactionService{
		transactionRepo:    transactionRepo,
		budgetRepo:         budgetRepo,
		projectRepo:        projectRepo,
		achievementService: achievementService,
		db:                 db,
	}
}

// Create records an income or expense transaction. An expense whose
// category names one of the user's budgets increments that budget's spent
// amount in the same transaction. Project contributions are created through
// the project service, not here.
func (s *TransactionService) Create(userID uint, amount float64, transactionType, category, note string, occurredAt time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, ErrInvalidTransactionType
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	transaction := &models.Transaction{
		UserID:     userID,
		Amount:     amount,
		Type:       transactionType,
		Category:   category,
		Note:       note,
		OccurredAt: occurredAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(tx, transaction); err != nil {
			return err
		}
		if transactionType == models.TransactionTypeExpense && category != "" {
			return s.adjustBudgetSpentInTx(tx, userID, category, amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.autoClaimTransactionCount(userID)

	return transaction, nil
}

// Delete removes a transaction and reverses the side effects its creation
// caused: the budget spent increment for expenses and the project expense
// total for contributions. Budget spent is floored at zero.
func (s *TransactionService) Delete(userID, id uint) error {
	transaction, err := s.transactionRepo.FindByID(userID, id)
	if err != nil {
		return err
	}
	if transaction == nil {
		return ErrTransactionNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.DeleteInTx(tx, userID, id); err != nil {
			return err
		}

		if transaction.Type == models.TransactionTypeExpense && transaction.Category != "" {
			if err := s.adjustBudgetSpentInTx(tx, userID, transaction.Category, -transaction.Amount); err != nil {
				return err
			}
		}

		if transaction.Type == models.TransactionTypeProjectContribution && transaction.ProjectID != nil {
			project, err := s.projectRepo.FindByIDForUpdate(tx, userID, *transaction.ProjectID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			project.TotalExpense = max(0, project.TotalExpense-transaction.Amount)
			return s.projectRepo.UpdateInTx(tx, project)
		}

		return nil
	})
}

func (s *TransactionService) adjustBudgetSpentInTx(tx *gorm.DB, userID uint, category string, delta float64) error {
	budget, err := s.budgetRepo.FindByNameForUpdate(tx, userID, category)
	if err != nil {
		return err
	}
	if budget == nil {
		return nil
	}
	budget.SpentAmount = max(0, budget.SpentAmount+delta)
	return s.budgetRepo.UpdateInTx(tx, budget)
}

func (s *TransactionService) autoClaimTransactionCount(userID uint) {
	count, err := s.transactionRepo.CountByUser(userID)
	if err != nil {
		log.Printf("Failed to count transactions for user %d: %v", userID, err)
		return
	}
	if err := s.achievementService.CheckAndAutoClaim(userID, models.RequirementTransactions, int(count)); err != nil {
		log.Printf("Failed to auto-claim transaction achievements for user %d: %v", userID, err)
	}
}

func (s *TransactionService) List(userID uint, limit int) ([]models.Transaction, error) {
	return s.transactionRepo.FindByUser(userID, limit)
}

func (s *TransactionService) Summarize(userID uint) (*Summary, error) {
	income, err := s.transactionRepo.SumByType(userID, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.transactionRepo.SumByType(userID, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}
	contributions, err := s.transactionRepo.SumByType(userID, models.TransactionTypeProjectContribution)
	if err != nil {
		return nil, err
	}
	count, err := s.transactionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	outgoing := expense + contributions
	return &Summary{
		Balance:      income - outgoing,
		TotalIncome:  income,
		TotalExpense: outgoing,
		Count:        count,
	}, nil
}
