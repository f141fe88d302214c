package services

import (
	"testing"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupShopTestDB(t *testing.T) (*gorm.DB, *ShopService, *PointsService) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	shopRepo := repository.NewShopRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	pointsService := NewPointsService(pointsRepo, db)
	shopService := NewShopService(shopRepo, settingsRepo, pointsService, db)

	return db, shopService, pointsService
}

func TestShopService_Purchase_Theme(t *testing.T) {
	db, shopService, pointsService := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000})
	theme := &models.ShopItem{Name: "Ocean Theme", Type: models.ShopItemTypeTheme, Price: 300, IsAvailable: true}
	assert.NoError(t, db.Create(theme).Error)

	item, err := shopService.Purchase(1, theme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ocean Theme", item.Name)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 700, account.TotalPoints)

	equipped, err := shopService.Equipped(1)
	require.NoError(t, err)
	require.NotNil(t, equipped.Theme, "buying a theme equips it immediately")
	assert.Equal(t, theme.ID, equipped.Theme.ID)
}

func TestShopService_Purchase_NonThemeDoesNotEquip(t *testing.T) {
	db, shopService, _ := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000})
	frame := &models.ShopItem{Name: "Gold Frame", Type: models.ShopItemTypeAvatarFrame, Price: 200, IsAvailable: true}
	assert.NoError(t, db.Create(frame).Error)

	_, err := shopService.Purchase(1, frame.ID)
	assert.NoError(t, err)

	equipped, err := shopService.Equipped(1)
	assert.NoError(t, err)
	assert.Nil(t, equipped.Frame, "frames are not auto-equipped")
}

func TestShopService_Purchase_InsufficientPoints(t *testing.T) {
	db, shopService, pointsService := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 100})
	theme := &models.ShopItem{Name: "Ocean Theme", Type: models.ShopItemTypeTheme, Price: 300, IsAvailable: true}
	assert.NoError(t, db.Create(theme).Error)

	_, err := shopService.Purchase(1, theme.ID)
	assert.Equal(t, ErrInsufficientPoints, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 100, account.TotalPoints, "failed purchase must not debit")

	var count int64
	assert.NoError(t, db.Model(&models.UserPurchase{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(0), count, "failed purchase must not record ownership")
}

func TestShopService_Purchase_NotFound(t *testing.T) {
	_, shopService, _ := setupShopTestDB(t)

	_, err := shopService.Purchase(1, 999)
	assert.Equal(t, ErrItemNotFound, err)
}

func TestShopService_Purchase_Unavailable(t *testing.T) {
	db, shopService, _ := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000})
	item := &models.ShopItem{Name: "Retired Icon", Type: models.ShopItemTypeIcon, Price: 100, IsAvailable: false}
	assert.NoError(t, db.Create(item).Error)

	_, err := shopService.Purchase(1, item.ID)
	assert.Equal(t, ErrItemNotAvailable, err)
}

func TestShopService_Purchase_Twice(t *testing.T) {
	db, shopService, pointsService := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000})
	item := &models.ShopItem{Name: "Pig Icon", Type: models.ShopItemTypeIcon, Price: 100, IsAvailable: true}
	assert.NoError(t, db.Create(item).Error)

	_, err := shopService.Purchase(1, item.ID)
	assert.NoError(t, err)

	_, err = shopService.Purchase(1, item.ID)
	assert.Equal(t, ErrAlreadyOwned, err)

	account, err := pointsService.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, 900, account.TotalPoints, "only charged once")
}

func TestShopService_Equip_NotOwned(t *testing.T) {
	db, shopService, _ := setupShopTestDB(t)

	item := &models.ShopItem{Name: "Gold Frame", Type: models.ShopItemTypeAvatarFrame, Price: 200, IsAvailable: true}
	assert.NoError(t, db.Create(item).Error)

	_, err := shopService.Equip(1, item.ID)
	assert.Equal(t, ErrNotOwned, err)
}

func TestShopService_Equip_DefaultItem(t *testing.T) {
	db, shopService, _ := setupShopTestDB(t)

	item := &models.ShopItem{Name: "Classic Theme", Type: models.ShopItemTypeTheme, Price: 0, IsDefault: true, IsAvailable: true}
	assert.NoError(t, db.Create(item).Error)

	settings, err := shopService.Equip(1, item.ID)
	require.NoError(t, err)
	require.NotNil(t, settings.ActiveThemeID)
	assert.Equal(t, item.ID, *settings.ActiveThemeID, "defaults are equippable without a purchase")
}

func TestShopService_Equip_Owned(t *testing.T) {
	db, shopService, _ := setupShopTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1, TotalPoints: 1000})
	item := &models.ShopItem{Name: "Night Background", Type: models.ShopItemTypeBackground, Price: 150, IsAvailable: true}
	assert.NoError(t, db.Create(item).Error)

	_, err := shopService.Purchase(1, item.ID)
	assert.NoError(t, err)

	settings, err := shopService.Equip(1, item.ID)
	require.NoError(t, err)
	require.NotNil(t, settings.ActiveBackgroundID)
	assert.Equal(t, item.ID, *settings.ActiveBackgroundID)

	equipped, err := shopService.Equipped(1)
	require.NoError(t, err)
	require.NotNil(t, equipped.Background)
	assert.Equal(t, item.ID, equipped.Background.ID)
}

// A second purchase row for the same pair must fail with the translated
// duplicate error so Purchase can map a racing buy to ErrAlreadyOwned.
func TestShopService_DuplicatePurchaseRowTranslated(t *testing.T) {
	db, _, _ := setupShopTestDB(t)

	require.NoError(t, db.Create(&models.UserPurchase{UserID: 1, ShopItemID: 7}).Error)

	err := db.Create(&models.UserPurchase{UserID: 1, ShopItemID: 7}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
