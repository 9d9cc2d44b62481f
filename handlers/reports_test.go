package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

func placeSimpleOrder(t *testing.T, r *gin.Engine, restaurantID uint, items []map[string]interface{}) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/public/restaurants/%d/orders", restaurantID), "", map[string]interface{}{
		"customer_name":    "Cliente",
		"delivery_address": "Rua E, 5",
		"payment_method":   "pix",
		"items":            items,
	})
	wantStatus(t, w, http.StatusCreated)
	var placed struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &placed)
	return placed.Order.ID
}

func TestSalesReport(t *testing.T) {
	r := setupTest(t)
	ownerToken, restaurantID := registerRestaurant(t, r, "contas@epraja.test", "190.200.210-01", "Balanço")
	itemA := addMenuItem(t, r, ownerToken, "Marmita P", 10)
	itemB := addMenuItem(t, r, ownerToken, "Marmita G", 15)

	// Two delivered orders ($40 and $30) and one still open ($15)
	order1 := placeSimpleOrder(t, r, restaurantID, []map[string]interface{}{
		{"menu_item_id": itemA, "quantity": 1},
		{"menu_item_id": itemB, "quantity": 2},
	})
	order2 := placeSimpleOrder(t, r, restaurantID, []map[string]interface{}{
		{"menu_item_id": itemA, "quantity": 3},
	})
	placeSimpleOrder(t, r, restaurantID, []map[string]interface{}{
		{"menu_item_id": itemB, "quantity": 1},
	})

	managerToken := createManager(t)
	for _, id := range []uint{order1, order2} {
		w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", id), managerToken, map[string]interface{}{
			"status": models.StatusDelivered,
			"reason": "settled in person",
		})
		wantStatus(t, w, http.StatusOK)
	}

	w := doJSON(t, r, http.MethodGet, "/api/restaurant/reports", ownerToken, nil)
	wantStatus(t, w, http.StatusOK)

	var report struct {
		TotalSales    float64 `json:"total_sales"`
		TotalOrders   int     `json:"total_orders"`
		AverageTicket float64 `json:"average_ticket"`
		TopItems      []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"top_items"`
	}
	decode(t, w, &report)

	if report.TotalSales != 70 {
		t.Errorf("total_sales = %v, want 70 (delivered orders only)", report.TotalSales)
	}
	if report.TotalOrders != 3 {
		t.Errorf("total_orders = %v, want 3", report.TotalOrders)
	}
	if want := 70.0 / 3.0; report.AverageTicket != want {
		t.Errorf("average_ticket = %v, want %v", report.AverageTicket, want)
	}
	if len(report.TopItems) != 2 {
		t.Fatalf("top_items = %v, want 2 entries", report.TopItems)
	}
	if report.TopItems[0].Name != "Marmita P" || report.TopItems[0].Quantity != 4 {
		t.Errorf("top item = %+v, want Marmita P x4", report.TopItems[0])
	}
	if report.TopItems[1].Name != "Marmita G" || report.TopItems[1].Quantity != 3 {
		t.Errorf("second item = %+v, want Marmita G x3", report.TopItems[1])
	}
}

func TestSalesReportEmptyRestaurant(t *testing.T) {
	r := setupTest(t)
	ownerToken, _ := registerRestaurant(t, r, "vazio@epraja.test", "210.220.230-01", "Vazio")

	w := doJSON(t, r, http.MethodGet, "/api/restaurant/reports", ownerToken, nil)
	wantStatus(t, w, http.StatusOK)

	var report struct {
		TotalSales    float64 `json:"total_sales"`
		TotalOrders   int     `json:"total_orders"`
		AverageTicket float64 `json:"average_ticket"`
	}
	decode(t, w, &report)
	if report.TotalSales != 0 || report.TotalOrders != 0 || report.AverageTicket != 0 {
		t.Errorf("empty report = %+v, want all zeros", report)
	}
}
