package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"epraja-api/config"
	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

func TestRegisterRestaurantStartsTrial(t *testing.T) {
	r := setupTest(t)

	_, restaurantID := registerRestaurant(t, r, "trial@epraja.test", "100.200.300-01", "Sabor Caseiro")

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		t.Fatalf("load restaurant: %v", err)
	}
	if restaurant.Status != models.RestaurantTrial {
		t.Errorf("status = %s, want %s", restaurant.Status, models.RestaurantTrial)
	}
	if restaurant.PaymentStatus != models.PaymentPending {
		t.Errorf("payment_status = %s, want %s", restaurant.PaymentStatus, models.PaymentPending)
	}
	// 7-day trial window, allow a minute of slack for the test run
	want := time.Now().AddDate(0, 0, 7)
	if diff := restaurant.AccessValidUntil.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("access_valid_until = %v, want about %v", restaurant.AccessValidUntil, want)
	}
}

func TestRegisterRestaurantDuplicateCPF(t *testing.T) {
	r := setupTest(t)

	registerRestaurant(t, r, "first@epraja.test", "111.111.111-11", "Primeiro")

	var users, restaurants int64
	config.DB.Model(&models.User{}).Count(&users)
	config.DB.Model(&models.Restaurant{}).Count(&restaurants)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register-restaurant", "", gin.H{
		"owner_name":      "Second Owner",
		"email":           "second@epraja.test",
		"password":        "secret123",
		"cpf":             "111.111.111-11",
		"restaurant_name": "Segundo",
		"address":         "Av. Central, 99",
	})
	wantStatus(t, w, http.StatusConflict)

	// The rejection must leave no partial rows behind
	var usersAfter, restaurantsAfter int64
	config.DB.Model(&models.User{}).Count(&usersAfter)
	config.DB.Model(&models.Restaurant{}).Count(&restaurantsAfter)
	if usersAfter != users {
		t.Errorf("user count changed from %d to %d", users, usersAfter)
	}
	if restaurantsAfter != restaurants {
		t.Errorf("restaurant count changed from %d to %d", restaurants, restaurantsAfter)
	}
}

func TestRegisterRejectsReservedRoles(t *testing.T) {
	r := setupTest(t)

	for _, role := range []string{"restaurant", "manager", "superuser"} {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
			"name":     "Mallory",
			"email":    "mallory+" + role + "@epraja.test",
			"password": "secret123",
			"role":     role,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("register with role %q: status = %d, want %d", role, w.Code, http.StatusBadRequest)
		}
	}
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	r := setupTest(t)

	_, userID := registerUser(t, r, models.RoleCustomer, "blocked@epraja.test")
	managerToken := createManager(t)

	statusPath := fmt.Sprintf("/api/admin/users/%d/status", userID)
	w := doJSON(t, r, http.MethodPut, statusPath, managerToken, gin.H{
		"status": "inactive",
	})
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "blocked@epraja.test",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusForbidden)

	// Reactivation restores login
	w = doJSON(t, r, http.MethodPut, statusPath, managerToken, gin.H{
		"status": "active",
	})
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "blocked@epraja.test",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusOK)
}

func TestDeactivationRevokesExistingToken(t *testing.T) {
	r := setupTest(t)

	customerToken, userID := registerUser(t, r, models.RoleCustomer, "revogado@epraja.test")
	managerToken := createManager(t)

	// The token works until the account is deactivated
	w := doJSON(t, r, http.MethodGet, "/api/profile", customerToken, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", userID), managerToken, gin.H{
		"status": "inactive",
	})
	wantStatus(t, w, http.StatusOK)

	// Not just login: the still-valid JWT is refused too
	w = doJSON(t, r, http.MethodGet, "/api/profile", customerToken, nil)
	wantStatus(t, w, http.StatusForbidden)
	w = doJSON(t, r, http.MethodGet, "/api/customer/orders", customerToken, nil)
	wantStatus(t, w, http.StatusForbidden)
}

func TestDeletedAccountTokenRejected(t *testing.T) {
	r := setupTest(t)

	customerToken, userID := registerUser(t, r, models.RoleCustomer, "fantasma@epraja.test")
	managerToken := createManager(t)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", userID), managerToken, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodGet, "/api/profile", customerToken, nil)
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, models.RoleCustomer, "alice@epraja.test")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@epraja.test",
		"password": "not-the-password",
	})
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestRoleGateBlocksCrossRoleAccess(t *testing.T) {
	r := setupTest(t)

	customerToken, _ := registerUser(t, r, models.RoleCustomer, "cust@epraja.test")

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", customerToken, nil)
	wantStatus(t, w, http.StatusForbidden)

	w = doJSON(t, r, http.MethodGet, "/api/restaurant/orders", customerToken, nil)
	wantStatus(t, w, http.StatusForbidden)

	w = doJSON(t, r, http.MethodGet, "/api/customer/orders", "", nil)
	wantStatus(t, w, http.StatusUnauthorized)
}
