package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"epraja-api/config"
	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

func publishMessage(t *testing.T, r *gin.Engine, token, audience, text string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/messages", token, gin.H{
		"audience": audience,
		"text":     text,
	})
	wantStatus(t, w, http.StatusCreated)
}

func myMessages(t *testing.T, r *gin.Engine, token string) []models.BroadcastMessage {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/restaurant/messages", token, nil)
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		Messages []models.BroadcastMessage `json:"messages"`
	}
	decode(t, w, &resp)
	return resp.Messages
}

func TestBroadcastAudienceFiltering(t *testing.T) {
	r := setupTest(t)
	managerToken := createManager(t)

	trialToken, _ := registerRestaurant(t, r, "novato@epraja.test", "700.800.900-01", "Novato")
	paidToken, paidID := registerRestaurant(t, r, "veterano@epraja.test", "800.900.100-01", "Veterano")

	// Promote the second restaurant to a paid, active subscription
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/restaurants/%d/grant-access", paidID), managerToken, gin.H{
		"days": 30,
	})
	wantStatus(t, w, http.StatusOK)
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/restaurants/%d/status", paidID), managerToken, gin.H{
		"status": "active",
	})
	wantStatus(t, w, http.StatusOK)

	publishMessage(t, r, managerToken, "all", "Manutenção programada no domingo")
	publishMessage(t, r, managerToken, "pending", "Regularize seu pagamento")
	publishMessage(t, r, managerToken, "paid", "Obrigado por manter a assinatura em dia")
	publishMessage(t, r, managerToken, "trial", "Seu período de teste está ativo")

	trialMsgs := myMessages(t, r, trialToken)
	if len(trialMsgs) != 3 {
		t.Fatalf("trial restaurant got %d messages, want 3", len(trialMsgs))
	}
	for _, m := range trialMsgs {
		if m.Audience == "paid" {
			t.Errorf("trial restaurant received paid-only message %q", m.Text)
		}
	}

	paidMsgs := myMessages(t, r, paidToken)
	if len(paidMsgs) != 2 {
		t.Fatalf("paid restaurant got %d messages, want 2", len(paidMsgs))
	}
	for _, m := range paidMsgs {
		if m.Audience == "pending" || m.Audience == "trial" {
			t.Errorf("paid restaurant received %s-only message %q", m.Audience, m.Text)
		}
	}
}

func TestPublishMessageRejectsUnknownAudience(t *testing.T) {
	r := setupTest(t)
	managerToken := createManager(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/messages", managerToken, gin.H{
		"audience": "vip",
		"text":     "secret club",
	})
	wantStatus(t, w, http.StatusBadRequest)

	var count int64
	config.DB.Model(&models.BroadcastMessage{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected message was stored, count = %d", count)
	}
}

func TestAdminListMessagesNewestFirst(t *testing.T) {
	r := setupTest(t)
	managerToken := createManager(t)

	publishMessage(t, r, managerToken, "all", "primeira")
	publishMessage(t, r, managerToken, "all", "segunda")

	w := doJSON(t, r, http.MethodGet, "/api/admin/messages", managerToken, nil)
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		Count    int                       `json:"count"`
		Messages []models.BroadcastMessage `json:"messages"`
	}
	decode(t, w, &resp)
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Messages[0].ID < resp.Messages[1].ID {
		t.Error("messages not ordered newest first")
	}
}
