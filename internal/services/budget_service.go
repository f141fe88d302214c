package services

import (
	"errors"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
)

var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrBudgetNameTaken = errors.New("budget name already in use")
	ErrInvalidStatus   = errors.New("invalid status")
)

type BudgetService struct {
	budgetRepo *repository.BudgetRepository
}

func NewBudgetService(budgetRepo *repository.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

func (s *BudgetService) Create(userID uint, name string, targetAmount float64, budgetType string, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
	if targetAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if budgetType != models.BudgetTypeMonthly && budgetType != models.BudgetTypeProject {
		budgetType = models.BudgetTypeMonthly
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	existing, err := s.budgetRepo.FindByName(userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrBudgetNameTaken
	}

	budget := &models.Budget{
		UserID:       userID,
		Name:         name,
		TargetAmount: targetAmount,
		Type:         budgetType,
		Status:       models.StatusActive,
		StartDate:    startDate,
		EndDate:      endDate,
	}
	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Update changes the target amount and dates. Renaming is intentionally not
// supported: the name is the expense category key, and renaming would
// detach the budget from its past transactions.
func (s *BudgetService) Update(userID, id uint, targetAmount float64, endDate *time.Time) (*models.Budget, error) {
	if targetAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	budget, err := s.budgetRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, ErrBudgetNotFound
	}

	budget.TargetAmount = targetAmount
	budget.EndDate = endDate
	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) SetStatus(userID, id uint, status string) (*models.Budget, error) {
	if status != models.StatusActive && status != models.StatusCompleted && status != models.StatusArchived {
		return nil, ErrInvalidStatus
	}

	budget, err := s.budgetRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, ErrBudgetNotFound
	}

	budget.Status = status
	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) Delete(userID, id uint) error {
	budget, err := s.budgetRepo.FindByID(userID, id)
	if err != nil {
		return err
	}
	if budget == nil {
		return ErrBudgetNotFound
	}
	return s.budgetRepo.Delete(userID, id)
}

func (s *BudgetService) List(userID uint) ([]models.Budget, error) {
	return s.budgetRepo.FindByUser(userID)
}

func (s *BudgetService) Get(userID, id uint) (*models.Budget, error) {
	budget, err := s.budgetRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, ErrBudgetNotFound
	}
	return budget, nil
}
