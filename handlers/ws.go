package handlers

import (
	"net/http"
	"strconv"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
)

// SubscribeTracking is the public live view behind the tracking deep link
func SubscribeTracking(c *gin.Context) {
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime updates unavailable"})
		return
	}
	restaurantID, err1 := strconv.ParseUint(c.Query("restaurant_id"), 10, 32)
	orderID, err2 := strconv.ParseUint(c.Query("order_id"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id and order_id are required"})
		return
	}

	var count int64
	config.DB.Model(&models.Order{}).
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	hub.Serve(c.Writer, c.Request, []string{ws.TrackTopic(uint(restaurantID), uint(orderID))})
}

// SubscribeFeed opens the role-specific realtime stream. Browsers cannot set
// an Authorization header on a WebSocket, so the JWT rides in ?token=.
func SubscribeFeed(c *gin.Context) {
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime updates unavailable"})
		return
	}
	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil || user.Status != models.UserActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}

	var topics []string
	switch claims.Role {
	case models.RoleRestaurant:
		var restaurant models.Restaurant
		if err := config.DB.Where("owner_id = ?", claims.UserID).First(&restaurant).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
			return
		}
		topics = []string{ws.RestaurantOrdersTopic(restaurant.ID), ws.BroadcastTopic}
	case models.RoleCourier:
		topics = []string{ws.CourierTopic(claims.UserID)}
	case models.RoleManager:
		topics = []string{ws.AdminRestaurantsTopic, ws.BroadcastTopic}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "No realtime feed for this role"})
		return
	}

	hub.Serve(c.Writer, c.Request, topics)
}
