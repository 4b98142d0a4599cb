package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ValidOrderStatus reports whether the value is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// Order groups priced lines for a customer. Total is always the sum of the
// line net prices and is recomputed whenever a line changes.
type Order struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"index;size:64"`
	CustomerID   *uint  `gorm:"index"`
	Customer     *Customer
	CommissionID *uint       `gorm:"index"`
	Status       OrderStatus `gorm:"size:32"`
	OrderDate    time.Time
	Details      string
	Notes        string
	DiscountNote string
	Total        decimal.Decimal `gorm:"type:decimal(12,2)"`
	Paid         bool
	Posted       bool
	StartedAt    *time.Time
	DueAt        *time.Time
	CompletedAt  *time.Time
	Version      int
	Lines        []OrderLine `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine is one priced position on an order. NetPrice is stored
// denormalised and derived from quantity, unit price, and discount.
type OrderLine struct {
	ID            uint `gorm:"primaryKey"`
	OrderID       uint `gorm:"index"`
	ProductID     uint `gorm:"index"`
	Product       *Product
	Quantity      int
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2)"`
	DiscountLabel string          `gorm:"size:256"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2)"`
	NetPrice      decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes         string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
