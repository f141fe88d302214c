package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(item *models.ShopItem) error {
	return r.db.Create(item).Error
}

func (r *ShopRepository) FindAll() ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := r.db.Order("type, price").Find(&items).Error
	return items, err
}

func (r *ShopRepository) FindAvailable() ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := r.db.Where("is_available = ?", true).Order("type, price").Find(&items).Error
	return items, err
}

func (r *ShopRepository) FindByID(id uint) (*models.ShopItem, error) {
	var item models.ShopItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ShopRepository) FindByName(name string) (*models.ShopItem, error) {
	var item models.ShopItem
	err := r.db.Where("name = ?", name).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ShopRepository) FindByIDs(ids []uint) ([]models.ShopItem, error) {
	var items []models.ShopItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *ShopRepository) Update(item *models.ShopItem) error {
	return r.db.Save(item).Error
}

func (r *ShopRepository) FindPurchasesByUser(userID uint) ([]models.UserPurchase, error) {
	var purchases []models.UserPurchase
	err := r.db.Where("user_id = ?", userID).Preload("ShopItem").Find(&purchases).Error
	return purchases, err
}

func (r *ShopRepository) ExistsPurchase(userID, itemID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserPurchase{}).
		Where("user_id = ? AND shop_item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *ShopRepository) CreatePurchaseInTx(tx *gorm.DB, purchase *models.UserPurchase) error {
	return tx.Create(purchase).Error
}
