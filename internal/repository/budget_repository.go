package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(budget *models.Budget) error {
	return r.db.Create(budget).Error
}

func (r *BudgetRepository) FindByID(userID, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.Where("user_id = ?", userID).First(&budget, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) FindByName(userID uint, name string) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) FindByNameForUpdate(tx *gorm.DB, userID uint, name string) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND name = ?", userID, name).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) FindByUser(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) Update(budget *models.Budget) error {
	return r.db.Save(budget).Error
}

func (r *BudgetRepository) UpdateInTx(tx *gorm.DB, budget *models.Budget) error {
	return tx.Save(budget).Error
}

func (r *BudgetRepository) Delete(userID, id uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Budget{}, id).Error
}
