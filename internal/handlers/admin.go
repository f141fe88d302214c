package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
)

type AdminHandler struct {
	achievementRepo *repository.AchievementRepository
	shopRepo        *repository.ShopRepository
}

func NewAdminHandler(achievementRepo *repository.AchievementRepository, shopRepo *repository.ShopRepository) *AdminHandler {
	return &AdminHandler{
		achievementRepo: achievementRepo,
		shopRepo:        shopRepo,
	}
}

type CreateAchievementRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	RequirementType  string `json:"requirement_type" binding:"required,oneof=transactions login_streak projects_completed setup_complete budget_streak"`
	RequirementValue int    `json:"requirement_value" binding:"gte=0"`
	PointsReward     int    `json:"points_reward" binding:"required,gt=0"`
}

type CreateShopItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required,oneof=theme icon avatar_frame background"`
	Price       int    `json:"price" binding:"gte=0"`
	Config      string `json:"config"`
	IsDefault   bool   `json:"is_default"`
	IsAvailable bool   `json:"is_available"`
}

type UpdateShopItemRequest struct {
	Price       *int    `json:"price"`
	Config      *string `json:"config"`
	IsAvailable *bool   `json:"is_available"`
}

// CreateAchievement godoc
// @Summary Create an achievement (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAchievementRequest true "Achievement"
// @Success 201 {object} AchievementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/achievements [post]
func (h *AdminHandler) CreateAchievement(c *gin.Context) {
	var req CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	existing, err := h.achievementRepo.FindByName(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "achievement name already exists"})
		return
	}

	achievement := &models.Achievement{
		Name:             req.Name,
		Description:      req.Description,
		Icon:             req.Icon,
		RequirementType:  req.RequirementType,
		RequirementValue: req.RequirementValue,
		PointsReward:     req.PointsReward,
	}
	if err := h.achievementRepo.Create(achievement); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toAchievementResponse(achievement))
}

// ListShopItems godoc
// @Summary List all shop items including unavailable ones (Admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ShopItem
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/shop/items [get]
func (h *AdminHandler) ListShopItems(c *gin.Context) {
	items, err := h.shopRepo.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateShopItem godoc
// @Summary Create a shop item (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateShopItemRequest true "Shop item"
// @Success 201 {object} models.ShopItem
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/shop/items [post]
func (h *AdminHandler) CreateShopItem(c *gin.Context) {
	var req CreateShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	existing, err := h.shopRepo.FindByName(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "shop item name already exists"})
		return
	}

	item := &models.ShopItem{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Price:       req.Price,
		Config:      req.Config,
		IsDefault:   req.IsDefault,
		IsAvailable: req.IsAvailable,
	}
	if err := h.shopRepo.Create(item); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateShopItem godoc
// @Summary Update a shop item (Admin)
// @Description Fields left out of the body are kept unchanged
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shop item ID"
// @Param request body UpdateShopItemRequest true "Changes"
// @Success 200 {object} models.ShopItem
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/shop/items/{id} [put]
func (h *AdminHandler) UpdateShopItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
		return
	}

	var req UpdateShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	item, err := h.shopRepo.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop item not found"})
		return
	}

	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Config != nil {
		item.Config = *req.Config
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := h.shopRepo.Update(item); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}
