package handlers

import (
	"net/http"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

// GetMyOrders returns the order history for a logged-in customer.
// Guest orders are not attached to any account and never show up here.
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.
		Preload("Items").
		Preload("Restaurant").
		Preload("StatusHistory").
		Preload("Courier").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID == nil || *order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
