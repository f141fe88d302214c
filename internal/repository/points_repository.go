package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) CreateInTx(tx *gorm.DB, account *models.PointsAccount) error {
	return tx.Create(account).Error
}

func (r *PointsRepository) FindByUserID(userID uint) (*models.PointsAccount, error) {
	var account models.PointsAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *PointsRepository) FindByUserIDForUpdate(tx *gorm.DB, userID uint) (*models.PointsAccount, error) {
	var account models.PointsAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *PointsRepository) UpdateInTx(tx *gorm.DB, account *models.PointsAccount) error {
	return tx.Save(account).Error
}
