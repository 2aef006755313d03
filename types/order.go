package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Any status may follow
// any other; only membership in the set is validated.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a purchase record. Items and TotalAmount are fixed at
// creation; Status is the only field mutated afterwards.
type Order struct {
	// ID is the unique identifier of the order.
	ID int `json:"id" db:"id"`

	// UserID references the account that placed the order.
	UserID int `json:"user_id" db:"user_id"`

	// Username is denormalized on reads for API responses.
	Username string `json:"username,omitempty" db:"-"`

	// OrderDate is when the order was placed.
	OrderDate time.Time `json:"order_date" db:"order_date"`

	// TotalAmount equals the sum of item subtotals, exactly.
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`

	// Status is the current lifecycle state.
	Status OrderStatus `json:"status" db:"status"`

	// Items are the order lines. Immutable after creation.
	Items []OrderItem `json:"items" db:"-"`
}

// OrderItem is one line of an order. PriceAtPurchase snapshots the
// instrument price at order time, so later price changes do not affect
// the recorded total.
type OrderItem struct {
	ID             int    `json:"id" db:"id"`
	OrderID        int    `json:"order_id" db:"order_id"`
	InstrumentID   int    `json:"instrument_id" db:"instrument_id"`
	InstrumentName string `json:"instrument_name,omitempty" db:"-"`

	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" db:"price_at_purchase"`
}

// OrderLine is a requested line item at placement time: which
// instrument and how many.
type OrderLine struct {
	InstrumentID int `json:"instrument_id"`
	Quantity     int `json:"quantity"`
}
