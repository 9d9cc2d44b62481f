package handlers

import (
	"net/http"
	"sort"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/statemachine"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetRestaurantOrders returns all orders for the restaurant owner
func GetRestaurantOrders(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var orders []models.Order
	query := config.DB.Preload("Items").Preload("Courier").
		Where("restaurant_id = ?", restaurant.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":    restaurant.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// GetSalesReport aggregates the owner's sales figures: revenue over delivered
// orders, total order count, average ticket, and the five best-selling items
// by quantity across all orders.
func GetSalesReport(c *gin.Context) {
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var orders []models.Order
	config.DB.Preload("Items").Where("restaurant_id = ?", restaurant.ID).Find(&orders)

	var totalSales float64
	itemCounts := map[string]int{}
	for _, o := range orders {
		if o.Status == models.StatusDelivered {
			totalSales += o.TotalPrice
		}
		for _, item := range o.Items {
			itemCounts[item.Name] += item.Quantity
		}
	}

	averageTicket := 0.0
	if len(orders) > 0 {
		averageTicket = totalSales / float64(len(orders))
	}

	type itemSales struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	topItems := make([]itemSales, 0, len(itemCounts))
	for name, qty := range itemCounts {
		topItems = append(topItems, itemSales{Name: name, Quantity: qty})
	}
	sort.Slice(topItems, func(i, j int) bool {
		if topItems[i].Quantity != topItems[j].Quantity {
			return topItems[i].Quantity > topItems[j].Quantity
		}
		return topItems[i].Name < topItems[j].Name
	})
	if len(topItems) > 5 {
		topItems = topItems[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":     restaurant.Name,
		"total_sales":    totalSales,
		"total_orders":   len(orders),
		"average_ticket": averageTicket,
		"top_items":      topItems,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus advances an order through the restaurant's transitions
func UpdateOrderStatus(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurant"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, statemachine.ActorRestaurant); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
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
			ChangedBy:  ownerID,
			Note:       req.Note,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	publishOrderStatus(&order, req.Status)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(req.Status),
	})
}

type AssignCourierRequest struct {
	CourierID   uint    `json:"courier_id" binding:"required"`
	DeliveryFee float64 `json:"delivery_fee" binding:"required,gt=0"`
}

// AssignCourier sets the courier, the delivery fee, and the
// OUT_FOR_DELIVERY status in one transaction: a concurrent reader never sees
// a courier without the status (or the fee) already in place. The courier's
// assignment index row is written in the same transaction.
func AssignCourier(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	restaurant, ok := ownedRestaurant(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurant"})
		return
	}

	var req AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var courier models.User
	if err := config.DB.Where("id = ? AND role = ?", req.CourierID, models.RoleCourier).First(&courier).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Courier not found"})
		return
	}
	if courier.Status != models.UserActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Courier account is deactivated"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusOutForDelivery, statemachine.ActorRestaurant); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}
	if order.CourierID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already has an assigned courier"})
		return
	}

	prevStatus := order.Status
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"courier_id":   req.CourierID,
			"delivery_fee": req.DeliveryFee,
			"status":       models.StatusOutForDelivery,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.CourierAssignment{
			CourierID:    req.CourierID,
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			DeliveryFee:  req.DeliveryFee,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   models.StatusOutForDelivery,
			ChangedBy:  ownerID,
			Note:       "Courier assigned",
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign courier"})
		return
	}

	publishOrderStatus(&order, models.StatusOutForDelivery)
	publish(ws.CourierTopic(req.CourierID), "delivery_assigned", gin.H{
		"order_id":     order.ID,
		"reference":    order.Reference,
		"delivery_fee": req.DeliveryFee,
		"address":      order.DeliveryAddress,
	})
	if notifier != nil {
		order.CourierID = &req.CourierID
		order.DeliveryFee = req.DeliveryFee
		if err := notifier.NotifyCourierAssigned(&order, courier.Phone); err != nil && log != nil {
			log.WithError(err).Warn("Courier assigned notification failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Courier assigned, order is out for delivery",
		"order_id":     order.ID,
		"courier_id":   req.CourierID,
		"delivery_fee": req.DeliveryFee,
		"status":       models.StatusOutForDelivery,
	})
}

func publishOrderStatus(order *models.Order, status models.OrderStatus) {
	payload := gin.H{
		"order_id":  order.ID,
		"reference": order.Reference,
		"status":    status,
	}
	publish(ws.RestaurantOrdersTopic(order.RestaurantID), "order_status", payload)
	publish(ws.TrackTopic(order.RestaurantID, order.ID), "order_status", payload)
}
