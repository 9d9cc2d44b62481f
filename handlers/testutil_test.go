package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"epraja-api/config"
	"epraja-api/handlers"
	"epraja-api/middleware"
	"epraja-api/models"
	"epraja-api/notify"
	"epraja-api/routes"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testCfg is the config handed to handlers.Init by the last setupTest call
var testCfg *config.Config

// setupTest wires the full router against a fresh in-memory database
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db
	config.JWTSecret = []byte("test-secret")

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	testCfg = &config.Config{
		TrialDays:    7,
		MonthlyPrice: 49.90,
		UploadDir:    t.TempDir(),
		BaseURL:      "http://api.test",
	}
	handlers.Init(testCfg, ws.NewHub(log), &notify.LogNotifier{Logger: log}, log)

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

// registerRestaurant signs up an owner+restaurant pair and returns the owner
// token and the restaurant id
func registerRestaurant(t *testing.T, r *gin.Engine, email, cpf, name string) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register-restaurant", "", gin.H{
		"owner_name":      "Owner of " + name,
		"email":           email,
		"password":        "secret123",
		"cpf":             cpf,
		"restaurant_name": name,
		"address":         "Rua das Flores, 10",
	})
	wantStatus(t, w, http.StatusCreated)

	var resp struct {
		Token      string            `json:"token"`
		Restaurant models.Restaurant `json:"restaurant"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.Restaurant.ID
}

// registerUser signs up a customer or courier and returns token and user id
func registerUser(t *testing.T, r *gin.Engine, role models.UserRole, email string) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "User " + email,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	wantStatus(t, w, http.StatusCreated)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.User.ID
}

// createManager provisions a manager account directly, as done out of band
// in production
func createManager(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Name:         "Platform Manager",
		Email:        "manager@epraja.test",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
		Status:       models.UserActive,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create manager: %v", err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate manager token: %v", err)
	}
	return token
}

// addMenuItem creates a menu item and returns its id
func addMenuItem(t *testing.T, r *gin.Engine, token, name string, price float64) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/restaurant/menu", token, gin.H{
		"name":  name,
		"price": price,
	})
	wantStatus(t, w, http.StatusCreated)

	var resp struct {
		Item models.MenuItem `json:"item"`
	}
	decode(t, w, &resp)
	return resp.Item.ID
}
