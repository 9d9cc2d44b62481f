package handlers

import (
	"net/http"
	"time"

	"epraja-api/config"
	"epraja-api/middleware"
	"epraja-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required"`
	Phone    string          `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a customer or courier account. Restaurant owners go
// through RegisterRestaurant; manager accounts are provisioned out of band.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != models.RoleCustomer && req.Role != models.RoleCourier {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer or courier"})
		return
	}

	var existing models.User
	if result := config.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       models.UserActive,
		Phone:        req.Phone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

type RegisterRestaurantRequest struct {
	OwnerName      string  `json:"owner_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=6"`
	Phone          string  `json:"phone"`
	CPF            string  `json:"cpf" binding:"required"`
	RestaurantName string  `json:"restaurant_name" binding:"required"`
	Address        string  `json:"address" binding:"required"`
	CompanyName    string  `json:"company_name"`
	CNPJ           string  `json:"cnpj"`
	ReferredByID   *uint   `json:"referred_by_id"`
	MinOrderAmount float64 `json:"min_order_amount"`
}

// RegisterRestaurant creates the owner account and its restaurant as one
// transaction: a failure leaves neither row behind. The restaurant starts in
// trial status with a pending payment and the configured trial window.
func RegisterRestaurant(c *gin.Context) {
	var req RegisterRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("cpf = ?", req.CPF).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "CPF already registered"})
		return
	}
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	trialDays := 7
	if cfg != nil {
		trialDays = cfg.TrialDays
	}

	cpf := req.CPF
	user := models.User{
		Name:         req.OwnerName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleRestaurant,
		Status:       models.UserActive,
		Phone:        req.Phone,
		CPF:          &cpf,
	}
	restaurant := models.Restaurant{
		Name:             req.RestaurantName,
		Address:          req.Address,
		CompanyName:      req.CompanyName,
		CNPJ:             req.CNPJ,
		Status:           models.RestaurantTrial,
		PaymentStatus:    models.PaymentPending,
		IsOpen:           true,
		AccessValidUntil: time.Now().AddDate(0, 0, trialDays),
		ReferredByID:     req.ReferredByID,
		MinOrderAmount:   req.MinOrderAmount,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		restaurant.OwnerID = user.ID
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant account"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant account created, trial started",
		"token":      token,
		"restaurant": restaurant,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.Status != models.UserActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
