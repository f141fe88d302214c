package models

import (
	"gorm.io/gorm"
)

const (
	ShopItemTypeTheme       = "theme"
	ShopItemTypeIcon        = "icon"
	ShopItemTypeAvatarFrame = "avatar_frame"
	ShopItemTypeBackground  = "background"
)

// ShopItem is shared catalog data. Config carries the visual parameters the
// client applies when the item is equipped. Items flagged IsDefault are
// implicitly owned by every user without a purchase row.
type ShopItem struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"not null;index" json:"type"`
	Price       int    `gorm:"not null" json:"price"`
	Config      string `gorm:"type:text" json:"config"`
	IsDefault   bool   `gorm:"not null;default:false" json:"is_default"`
	IsAvailable bool   `gorm:"not null;default:true;index" json:"is_available"`
}

type UserPurchase struct {
	gorm.Model
	UserID     uint     `gorm:"not null;index:idx_user_purchases_pair,unique" json:"user_id"`
	ShopItemID uint     `gorm:"not null;index:idx_user_purchases_pair,unique" json:"shop_item_id"`
	ShopItem   ShopItem `gorm:"foreignKey:ShopItemID" json:"shop_item,omitempty"`
}
