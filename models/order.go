package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentMethodCash = "Cash"
)

// Order represents a customer's purchase request for one car
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"userId"`
	CarID           uint            `gorm:"not null;index" json:"carId"`
	ShippingAddress string          `gorm:"not null" json:"shippingAddress"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shippingFee"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	PaymentMethod   string          `gorm:"not null;default:'Cash'" json:"paymentMethod"`
	OrderDate       time.Time       `gorm:"not null" json:"orderDate"`
	Status          string          `gorm:"not null;default:'pending';index" json:"status"` // pending, confirmed, shipped, delivered, cancelled
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsValidOrderStatus reports whether status is a known order status
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsClosed reports whether the order reached a terminal status
func (o Order) IsClosed() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// CarStatusFor returns the car status that mirrors an order status
func CarStatusFor(orderStatus string) string {
	switch orderStatus {
	case OrderStatusDelivered:
		return CarStatusSold
	case OrderStatusCancelled:
		return CarStatusAvailable
	default:
		return CarStatusInOrderProgress
	}
}

// OrderView is an order joined with its customer and car
type OrderView struct {
	Order
	User *UserSummary `json:"user,omitempty"`
	Car  *CarView     `json:"car,omitempty"`
}

// All returns every model managed by migrations
func All() []interface{} {
	return []interface{}{&User{}, &Automaker{}, &Car{}, &Order{}}
}
