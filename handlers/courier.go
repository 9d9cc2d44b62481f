package handlers

import (
	"net/http"
	"time"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMyDeliveries returns the courier's active queue from the assignment
// index — one indexed query instead of scanning every restaurant's orders.
func GetMyDeliveries(c *gin.Context) {
	courierID := middleware.GetUserID(c)

	var assignments []models.CourierAssignment
	config.DB.Where("courier_id = ? AND delivered = ?", courierID, false).
		Order("created_at asc").
		Find(&assignments)

	orderIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		orderIDs = append(orderIDs, a.OrderID)
	}

	var orders []models.Order
	if len(orderIDs) > 0 {
		config.DB.Preload("Items").Preload("Restaurant").
			Where("id IN ?", orderIDs).
			Find(&orders)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// DeliverOrder transitions OUT_FOR_DELIVERY → DELIVERED. Only the assigned
// courier may call it; there is no client-trust gap here.
func DeliverOrder(c *gin.Context) {
	courierID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.CourierID == nil || *order.CourierID != courierID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned courier for this order"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusDelivered, statemachine.ActorCourier); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	prevStatus := order.Status
	now := time.Now()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", models.StatusDelivered).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CourierAssignment{}).
			Where("order_id = ?", order.ID).
			Updates(map[string]interface{}{"delivered": true, "delivered_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   models.StatusDelivered,
			ChangedBy:  courierID,
			Note:       "Order delivered to customer",
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark order delivered"})
		return
	}

	publishOrderStatus(&order, models.StatusDelivered)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order delivered successfully",
		"order_id": order.ID,
		"status":   models.StatusDelivered,
	})
}

// GetEarnings sums the courier's delivery fees for today and overall
func GetEarnings(c *gin.Context) {
	courierID := middleware.GetUserID(c)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var today, total float64
	config.DB.Model(&models.CourierAssignment{}).
		Where("courier_id = ? AND delivered = ? AND delivered_at >= ?", courierID, true, startOfDay).
		Select("COALESCE(SUM(delivery_fee), 0)").
		Scan(&today)
	config.DB.Model(&models.CourierAssignment{}).
		Where("courier_id = ? AND delivered = ?", courierID, true).
		Select("COALESCE(SUM(delivery_fee), 0)").
		Scan(&total)

	c.JSON(http.StatusOK, gin.H{
		"earnings_today": today,
		"earnings_total": total,
	})
}
