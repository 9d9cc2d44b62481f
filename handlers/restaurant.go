package handlers

import (
	"net/http"
	"time"

	"epraja-api/broadcast"
	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/subscription"

	"github.com/gin-gonic/gin"
)

// ── Restaurant Management ────────────────────────────────────────────────────

func ownedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	ownerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Where("owner_id = ?", ownerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
		return nil, false
	}
	return &restaurant, true
}

// GetMyRestaurant fetches the caller's restaurant with its computed access
// mode, so dashboards render the paywall without re-deriving the gate.
func GetMyRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").Where("owner_id = ?", ownerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
		return
	}

	mode := subscription.Evaluate(time.Now(), restaurant.AccessValidUntil, restaurant.UnlockRequested)
	c.JSON(http.StatusOK, gin.H{
		"restaurant":  restaurant,
		"access_mode": mode,
	})
}

// UpdateRestaurant updates restaurant details (safe fields only)
func UpdateRestaurant(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "address": true, "company_name": true,
		"is_open": true, "min_order_amount": true,
		"profile_image_url": true, "cover_image_url": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(restaurant).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// RequestUnlock flags the restaurant for manual payment review.
// Sets the flag only; the manager grants access separately.
func RequestUnlock(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	mode := subscription.Evaluate(time.Now(), restaurant.AccessValidUntil, restaurant.UnlockRequested)
	switch mode {
	case subscription.ModeActive:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Access is still valid, nothing to unlock"})
		return
	case subscription.ModePaywallPending:
		c.JSON(http.StatusConflict, gin.H{"error": "Unlock already requested, awaiting manager approval"})
		return
	}

	config.DB.Model(restaurant).Update("unlock_requested", true)
	c.JSON(http.StatusOK, gin.H{"message": "Unlock requested, a manager will review your payment"})
}

// GetMyMessages returns broadcast messages addressed to this restaurant
func GetMyMessages(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var msgs []models.BroadcastMessage
	config.DB.Order("created_at desc").Find(&msgs)
	mine := broadcast.Filter(msgs, *restaurant)

	c.JSON(http.StatusOK, gin.H{"count": len(mine), "messages": mine})
}

// ── Menu Management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// AddMenuItem adds a new item to the restaurant's menu
func AddMenuItem(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		IsAvailable:  true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

func ownedMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	ownerID := middleware.GetUserID(c)
	itemID := c.Param("itemId")

	var item models.MenuItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return nil, false
	}
	var restaurant models.Restaurant
	if err := config.DB.Where("id = ? AND owner_id = ?", item.RestaurantID, ownerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this menu item"})
		return nil, false
	}
	return &item, true
}

// UpdateMenuItem updates a menu item (only by the owner)
func UpdateMenuItem(c *gin.Context) {
	item, ok := ownedMenuItem(c)
	if !ok {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "price": true,
		"category": true, "is_available": true, "image_url": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func DeleteMenuItem(c *gin.Context) {
	item, ok := ownedMenuItem(c)
	if !ok {
		return
	}
	config.DB.Delete(item)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
