package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *gorm.DB, transaction *models.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *TransactionRepository) FindByID(userID, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Where("user_id = ?", userID).First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) FindByUser(userID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	db := r.db.Where("user_id = ?", userID).Order("occurred_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) DeleteInTx(tx *gorm.DB, userID, id uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.Transaction{}, id).Error
}

func (r *TransactionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *TransactionRepository) SumByType(userID uint, transactionType string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, transactionType).
		Scan(&total).Error
	return total, err
}
