package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusReceived       OrderStatus = "RECEIVED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
)

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Reference    string      `json:"reference" gorm:"uniqueIndex;not null"` // human-facing code, used in tracking links
	RestaurantID uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant   Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CustomerID   *uint       `json:"customer_id"` // nil for guest checkout
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	CourierID    *uint       `json:"courier_id"`
	Courier      *User       `json:"courier,omitempty" gorm:"foreignKey:CourierID"`
	Status       OrderStatus `json:"status" gorm:"not null;default:'RECEIVED'"`

	// Contact snapshot taken at checkout; independent of any user record
	CustomerName    string `json:"customer_name" gorm:"not null"`
	CustomerPhone   string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address" gorm:"not null"`

	TotalPrice    float64 `json:"total_price"`
	PaymentMethod string  `json:"payment_method"`
	ChangeFor     float64 `json:"change_for"` // cash payments: amount the customer will pay with
	DeliveryFee   float64 `json:"delivery_fee"`

	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderItem is a snapshot of a menu item at order time. Later menu edits
// never touch these rows.
type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"not null"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	Price      float64 `json:"price" gorm:"not null"`
	Name       string  `json:"name"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// CourierAssignment is a denormalized index keyed by courier, written in the
// same transaction as the order's own courier/status write. A courier's queue
// and earnings are answered here instead of scanning every restaurant's orders.
type CourierAssignment struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CourierID    uint       `json:"courier_id" gorm:"index;not null"`
	OrderID      uint       `json:"order_id" gorm:"uniqueIndex;not null"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null"`
	DeliveryFee  float64    `json:"delivery_fee"`
	Delivered    bool       `json:"delivered" gorm:"default:false"`
	DeliveredAt  *time.Time `json:"delivered_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
