package handlers

import (
	"net/http"

	"epraja-api/config"
	"epraja-api/models"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
)

type PublishMessageRequest struct {
	Audience string `json:"audience" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

var validAudiences = map[string]bool{
	models.AudienceAll:                true,
	string(models.PaymentPaid):        true,
	string(models.PaymentPending):     true,
	string(models.RestaurantActive):   true,
	string(models.RestaurantInactive): true,
	string(models.RestaurantTrial):    true,
}

// PublishMessage appends an immutable broadcast record and pushes it to
// connected restaurant dashboards. There is no edit or delete.
func PublishMessage(c *gin.Context) {
	var req PublishMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validAudiences[req.Audience] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audience tag"})
		return
	}

	msg := models.BroadcastMessage{
		Audience: req.Audience,
		Text:     req.Text,
	}
	if err := config.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish message"})
		return
	}

	// Subscribers filter by audience on their side, matching the stored
	// read path; delivery is best-effort for whoever is online.
	publish(ws.BroadcastTopic, "broadcast_message", msg)

	c.JSON(http.StatusCreated, gin.H{"message": "Message published", "broadcast": msg})
}

// AdminListMessages returns every broadcast ever sent, newest first
func AdminListMessages(c *gin.Context) {
	var msgs []models.BroadcastMessage
	config.DB.Order("created_at desc").Find(&msgs)
	c.JSON(http.StatusOK, gin.H{"count": len(msgs), "messages": msgs})
}
