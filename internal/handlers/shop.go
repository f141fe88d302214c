package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/services"
)

type ShopHandler struct {
	shopService   *services.ShopService
	pointsService *services.PointsService
}

func NewShopHandler(shopService *services.ShopService, pointsService *services.PointsService) *ShopHandler {
	return &ShopHandler{shopService: shopService, pointsService: pointsService}
}

type ShopItemResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Price       int    `json:"price"`
	Config      string `json:"config"`
	IsDefault   bool   `json:"is_default"`
	Owned       bool   `json:"owned"`
}

type PurchaseRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

type PurchaseResponse struct {
	Item            ShopItemResponse `json:"item"`
	RemainingPoints int              `json:"remaining_points"`
}

type EquipRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

type EquippedResponse struct {
	Theme      *ShopItemResponse `json:"theme,omitempty"`
	Frame      *ShopItemResponse `json:"frame,omitempty"`
	Icon       *ShopItemResponse `json:"icon,omitempty"`
	Background *ShopItemResponse `json:"background,omitempty"`
}

func toShopItemResponse(item *models.ShopItem, owned bool) ShopItemResponse {
	return ShopItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Type:        item.Type,
		Price:       item.Price,
		Config:      item.Config,
		IsDefault:   item.IsDefault,
		Owned:       owned || item.IsDefault,
	}
}

// List godoc
// @Summary List available shop items
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ShopItemResponse
// @Failure 401 {object} ErrorResponse
// @Router /shop/items [get]
func (h *ShopHandler) List(c *gin.Context) {
	items, err := h.shopService.Items()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	purchases, err := h.shopService.Purchases(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	owned := make(map[uint]bool, len(purchases))
	for _, p := range purchases {
		owned[p.ShopItemID] = true
	}

	responses := make([]ShopItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toShopItemResponse(&items[i], owned[items[i].ID]))
	}
	c.JSON(http.StatusOK, responses)
}

// Purchase godoc
// @Summary Buy a shop item with points
// @Description Spends the item price and records ownership atomically; buying a theme also equips it
// @Tags shop
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PurchaseRequest true "Purchase request"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /shop/purchase [post]
func (h *ShopHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	item, err := h.shopService.Purchase(userID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrItemNotAvailable), errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrAlreadyOwned):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	account, err := h.pointsService.GetAccount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{
		Item:            toShopItemResponse(item, true),
		RemainingPoints: account.TotalPoints,
	})
}

// Equip godoc
// @Summary Equip an owned item
// @Tags shop
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EquipRequest true "Equip request"
// @Success 200 {object} EquippedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shop/equip [post]
func (h *ShopHandler) Equip(c *gin.Context) {
	var req EquipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if _, err := h.shopService.Equip(userID, req.ItemID); err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrNotOwned):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	h.writeEquipped(c, userID)
}

// Equipped godoc
// @Summary Get the currently equipped items
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Success 200 {object} EquippedResponse
// @Failure 401 {object} ErrorResponse
// @Router /shop/equipped [get]
func (h *ShopHandler) Equipped(c *gin.Context) {
	h.writeEquipped(c, middleware.GetUserID(c))
}

func (h *ShopHandler) writeEquipped(c *gin.Context, userID uint) {
	equipped, err := h.shopService.Equipped(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := EquippedResponse{}
	if equipped.Theme != nil {
		r := toShopItemResponse(equipped.Theme, true)
		resp.Theme = &r
	}
	if equipped.Frame != nil {
		r := toShopItemResponse(equipped.Frame, true)
		resp.Frame = &r
	}
	if equipped.Icon != nil {
		r := toShopItemResponse(equipped.Icon, true)
		resp.Icon = &r
	}
	if equipped.Background != nil {
		r := toShopItemResponse(equipped.Background, true)
		resp.Background = &r
	}
	c.JSON(http.StatusOK, resp)
}
