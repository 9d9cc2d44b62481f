package handlers

import (
	"net/http"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/statemachine"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListRestaurants returns restaurants for the customer-facing listing.
// Inactive restaurants are never shown.
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB.Where("status <> ?", models.RestaurantInactive)

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("is_open = ?", true)
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant with its menu
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var items []models.MenuItem
	query := config.DB.Where("restaurant_id = ?", restaurantID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"is_open":    restaurant.IsOpen,
		"count":      len(items),
		"menu":       items,
	})
}

type PlaceOrderRequest struct {
	CustomerName    string  `json:"customer_name" binding:"required"`
	CustomerPhone   string  `json:"customer_phone"`
	DeliveryAddress string  `json:"delivery_address" binding:"required"`
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	ChangeFor       float64 `json:"change_for"`
	Items           []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order for a restaurant. Checkout is public
// (guest orders carry only the contact snapshot); a logged-in customer's id
// is attached when a valid token is present.
func PlaceOrder(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("Owner").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !restaurant.IsOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant is currently closed"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Snapshot every line item; later menu edits must not touch the order
	var orderItems []models.OrderItem
	var total float64
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item not found"})
			return
		}
		if menuItem.RestaurantID != restaurant.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item does not belong to this restaurant"})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		total += menuItem.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   reqItem.Quantity,
			Price:      menuItem.Price,
			Name:       menuItem.Name,
		})
	}

	if restaurant.MinOrderAmount > 0 && total < restaurant.MinOrderAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order total is below the restaurant's minimum"})
		return
	}

	order := models.Order{
		Reference:       uuid.New().String(),
		RestaurantID:    restaurant.ID,
		Status:          models.StatusReceived,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		TotalPrice:      total,
		PaymentMethod:   req.PaymentMethod,
		ChangeFor:       req.ChangeFor,
		Items:           orderItems,
	}
	if userID, ok := middleware.GetOptionalUserID(c); ok {
		order.CustomerID = &userID
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:  order.ID,
			ToStatus: models.StatusReceived,
			Note:     "Order placed",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	publish(ws.RestaurantOrdersTopic(restaurant.ID), "order_created", order)
	if notifier != nil {
		if err := notifier.NotifyOrderPlaced(&order, restaurant.Owner.Phone); err != nil && log != nil {
			log.WithError(err).Warn("Order placed notification failed")
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        order,
		"tracking_url": "/api/public/track?restaurant_id=" + c.Param("id") + "&order_id=" + itoa(order.ID),
	})
}

// TrackOrder is the public tracking deep link: read-only live status, no auth
func TrackOrder(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	orderID := c.Query("order_id")
	if restaurantID == "" || orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id and order_id are required"})
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var restaurant models.Restaurant
	config.DB.First(&restaurant, order.RestaurantID)

	c.JSON(http.StatusOK, gin.H{
		"reference":  order.Reference,
		"restaurant": restaurant.Name,
		"status":     order.Status,
		"items":      order.Items,
		"total":      order.TotalPrice,
		"created_at": order.CreatedAt,
		"updated_at": order.UpdatedAt,
	})
}

// GetStateMachineInfo returns the full order state machine for clients
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered},
		"description":     "Order lifecycle: strictly forward, no skipping, no reverse",
	})
}
