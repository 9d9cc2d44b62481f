package models

import "time"

// RestaurantStatus is the operating status set by the manager.
// New restaurants start in "trial" with a 7-day access window.
type RestaurantStatus string

const (
	RestaurantActive   RestaurantStatus = "active"
	RestaurantInactive RestaurantStatus = "inactive"
	RestaurantTrial    RestaurantStatus = "trial"
)

// PaymentStatus tracks the monthly subscription payment
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

type Restaurant struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	OwnerID          uint             `json:"owner_id" gorm:"uniqueIndex;not null"`
	Owner            User             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name             string           `json:"name" gorm:"not null"`
	Address          string           `json:"address"`
	CompanyName      string           `json:"company_name"`
	CNPJ             string           `json:"cnpj"`
	Status           RestaurantStatus `json:"status" gorm:"not null;default:'trial'"`
	PaymentStatus    PaymentStatus    `json:"payment_status" gorm:"not null;default:'pending'"`
	IsOpen           bool             `json:"is_open" gorm:"default:true"`
	AccessValidUntil time.Time        `json:"access_valid_until"`
	UnlockRequested  bool             `json:"unlock_requested" gorm:"default:false"`
	ReferredByID     *uint            `json:"referred_by_id"`
	MinOrderAmount   float64          `json:"min_order_amount"`
	ProfileImageURL  string           `json:"profile_image_url"`
	CoverImageURL    string           `json:"cover_image_url"`
	MenuItems        []MenuItem       `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
