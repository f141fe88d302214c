package services

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("shop item not found")
	ErrItemNotAvailable = errors.New("shop item is not available")
	ErrAlreadyOwned     = errors.New("item already owned")
	ErrNotOwned         = errors.New("item not owned")
)

// EquippedItems is the resolved active cosmetic set; each slot is nil when
// nothing is equipped for it.
type EquippedItems struct {
	Theme      *models.ShopItem `json:"theme"`
	Frame      *models.ShopItem `json:"frame"`
	Icon       *models.ShopItem `json:"icon"`
	Background *models.ShopItem `json:"background"`
}

type ShopService struct {
	shopRepo      *repository.ShopRepository
	settingsRepo  *repository.SettingsRepository
	pointsService *PointsService
	db            *gorm.DB
}

func NewShopService(
	shopRepo *repository.ShopRepository,
	settingsRepo *repository.SettingsRepository,
	pointsService *PointsService,
	db *gorm.DB,
) *ShopService {
	return &ShopService{
		shopRepo:      shopRepo,
		settingsRepo:  settingsRepo,
		pointsService: pointsService,
		db:            db,
	}
}

func (s *ShopService) Items() ([]models.ShopItem, error) {
	return s.shopRepo.FindAvailable()
}

func (s *ShopService) Purchases(userID uint) ([]models.UserPurchase, error) {
	return s.shopRepo.FindPurchasesByUser(userID)
}

// Purchase spends the points and records ownership in one transaction, so a
// failure can never leave points deducted without the purchase row. Themes
// are equipped immediately on purchase.
func (s *ShopService) Purchase(userID, itemID uint) (*models.ShopItem, error) {
	item, err := s.shopRepo.FindByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.IsAvailable {
		return nil, ErrItemNotAvailable
	}

	owned, err := s.shopRepo.ExistsPurchase(userID, itemID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.pointsService.spendPointsInTx(tx, userID, item.Price); err != nil {
			return err
		}

		purchase := &models.UserPurchase{
			UserID:     userID,
			ShopItemID: item.ID,
		}
		if err := s.shopRepo.CreatePurchaseInTx(tx, purchase); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOwned
			}
			return err
		}

		if item.Type == models.ShopItemTypeTheme {
			return s.activateInTx(tx, userID, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Equip marks an owned item as the active one for its slot. Catalog items
// flagged as defaults are implicitly owned.
func (s *ShopService) Equip(userID, itemID uint) (*models.UserSettings, error) {
	item, err := s.shopRepo.FindByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if !item.IsDefault {
		owned, err := s.shopRepo.ExistsPurchase(userID, itemID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrNotOwned
		}
	}

	var settings *models.UserSettings
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.activateInTx(tx, userID, item); err != nil {
			return err
		}
		var err error
		settings, err = s.settingsRepo.FindByUserIDInTx(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *ShopService) activateInTx(tx *gorm.DB, userID uint, item *models.ShopItem) error {
	settings, err := s.settingsRepo.FindByUserIDInTx(tx, userID)
	if err != nil {
		return err
	}
	if settings == nil {
		settings = &models.UserSettings{UserID: userID}
		if err := s.settingsRepo.CreateInTx(tx, settings); err != nil {
			return err
		}
	}

	switch item.Type {
	case models.ShopItemTypeTheme:
		settings.ActiveThemeID = &item.ID
	case models.ShopItemTypeAvatarFrame:
		settings.ActiveFrameID = &item.ID
	case models.ShopItemTypeIcon:
		settings.ActiveIconID = &item.ID
	case models.ShopItemTypeBackground:
		settings.ActiveBackgroundID = &item.ID
	default:
		return ErrItemNotFound
	}

	return s.settingsRepo.UpdateInTx(tx, settings)
}

// Equipped resolves the four active pointers against the catalog in one
// batch fetch.
func (s *ShopService) Equipped(userID uint) (*EquippedItems, error) {
	settings, err := s.settingsRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	equipped := &EquippedItems{}
	if settings == nil {
		return equipped, nil
	}

	var ids []uint
	for _, id := range []*uint{settings.ActiveThemeID, settings.ActiveFrameID, settings.ActiveIconID, settings.ActiveBackgroundID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}

	items, err := s.shopRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.ShopItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	if settings.ActiveThemeID != nil {
		equipped.Theme = byID[*settings.ActiveThemeID]
	}
	if settings.ActiveFrameID != nil {
		equipped.Frame = byID[*settings.ActiveFrameID]
	}
	if settings.ActiveIconID != nil {
		equipped.Icon = byID[*settings.ActiveIconID]
	}
	if settings.ActiveBackgroundID != nil {
		equipped.Background = byID[*settings.ActiveBackgroundID]
	}

	return equipped, nil
}
