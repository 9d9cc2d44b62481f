package handlers

import (
	"net/http"
	"time"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/subscription"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminGetAllOrders returns all orders with full detail — manager only
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items").
		Preload("Customer").Preload("Restaurant").Preload("Courier").Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminGetAllUsers returns all users — manager only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllRestaurants returns every restaurant plus the manager dashboard
// figures: subscription revenue by payment status and the pending queues.
func AdminGetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	config.DB.Preload("Owner").Find(&restaurants)

	monthlyPrice := 49.90
	if cfg != nil {
		monthlyPrice = cfg.MonthlyPrice
	}

	var collected, pending, trialing float64
	var unlockQueue, pendingPayment []models.Restaurant
	for _, r := range restaurants {
		if r.PaymentStatus == models.PaymentPaid {
			collected += monthlyPrice
		}
		if r.PaymentStatus == models.PaymentPending {
			pending += monthlyPrice
			pendingPayment = append(pendingPayment, r)
		}
		if r.Status == models.RestaurantTrial {
			trialing += monthlyPrice
		}
		if r.UnlockRequested {
			unlockQueue = append(unlockQueue, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":             len(restaurants),
		"restaurants":       restaurants,
		"revenue_collected": collected,
		"revenue_pending":   pending,
		"revenue_trialing":  trialing,
		"unlock_requests":   unlockQueue,
		"pending_payment":   pendingPayment,
	})
}

type statusToggleRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminSetUserStatus activates or deactivates a user account
func AdminSetUserStatus(c *gin.Context) {
	var req statusToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := models.UserStatus(req.Status)
	if status != models.UserActive && status != models.UserInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: active or inactive"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	config.DB.Model(&user).Update("status", status)
	c.JSON(http.StatusOK, gin.H{"message": "User status updated", "user": user})
}

// AdminDeleteUser removes a user account. Managers cannot delete themselves.
func AdminDeleteUser(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID == callerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}
	config.DB.Delete(&user)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminSetRestaurantStatus sets the operating status (active/inactive/trial)
func AdminSetRestaurantStatus(c *gin.Context) {
	var req statusToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := models.RestaurantStatus(req.Status)
	switch status {
	case models.RestaurantActive, models.RestaurantInactive, models.RestaurantTrial:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: active, inactive or trial"})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	config.DB.Model(&restaurant).Update("status", status)

	publish(ws.AdminRestaurantsTopic, "restaurant_status", gin.H{
		"restaurant_id": restaurant.ID,
		"status":        status,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant status updated", "restaurant": restaurant})
}

// AdminDeleteRestaurant removes a restaurant and everything under it —
// menu, orders, order items, history, courier assignments — in one
// transaction. The owner account itself is deleted separately.
func AdminDeleteRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).
			Where("restaurant_id = ?", restaurant.ID).
			Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderStatusHistory{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.CourierAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete restaurant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant and all its data deleted"})
}

type GrantAccessRequest struct {
	Days int `json:"days" binding:"required,gt=0"`
}

// AdminGrantAccess extends a restaurant's access window: expiry = now + days,
// payment marked paid, any pending unlock request cleared — atomically.
// days >= subscription.LifetimeDays grants the explicit lifetime window.
func AdminGrantAccess(c *gin.Context) {
	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	validUntil := subscription.GrantWindow(time.Now(), req.Days)
	if err := config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"access_valid_until": validUntil,
		"payment_status":     models.PaymentPaid,
		"unlock_requested":   false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant access"})
		return
	}

	publish(ws.AdminRestaurantsTopic, "access_granted", gin.H{
		"restaurant_id":      restaurant.ID,
		"access_valid_until": validUntil,
	})
	c.JSON(http.StatusOK, gin.H{
		"message":            "Access granted",
		"restaurant_id":      restaurant.ID,
		"access_valid_until": validUntil,
		"lifetime":           req.Days >= subscription.LifetimeDays,
	})
}

// AdminApproveUnlock is the one-click 30-day approval for an unlock request
func AdminApproveUnlock(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !restaurant.UnlockRequested {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant has no pending unlock request"})
		return
	}

	validUntil := subscription.GrantWindow(time.Now(), 30)
	if err := config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"access_valid_until": validUntil,
		"payment_status":     models.PaymentPaid,
		"unlock_requested":   false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve unlock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Unlock approved for 30 days",
		"restaurant_id":      restaurant.ID,
		"access_valid_until": validUntil,
	})
}

// AdminForceOrderStatus lets a manager override any order state. The only
// path around the transition table, and always audited.
func AdminForceOrderStatus(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.StatusReceived, models.StatusPreparing, models.StatusOutForDelivery, models.StatusDelivered:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: RECEIVED, PREPARING, OUT_FOR_DELIVERY or DELIVERED"})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	prevStatus := order.Status
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", req.Status).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   req.Status,
			ChangedBy:  managerID,
			Note:       "[MANAGER OVERRIDE] " + req.Reason,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	publishOrderStatus(&order, req.Status)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by manager",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}
