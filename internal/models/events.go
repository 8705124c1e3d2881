package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced    = "ORDER_PLACED"
	EventTypeOrderCancelled = "ORDER_CANCELLED"
	EventTypeOrderCompleted = "ORDER_COMPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when an order is created
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	UserID      string          `json:"user_id"`
	ClaimCode   string          `json:"claim_code"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Discount    decimal.Decimal `json:"discount"`
	Items       []OrderItemData `json:"items"`
}

// OrderCancelledEvent published when an order is cancelled by its owner
type OrderCancelledEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	UserID  string `json:"user_id"`
}

// OrderCompletedEvent published when an order is completed at the
// pickup counter; the notification worker turns it into a broadcast.
type OrderCompletedEvent struct {
	BaseEvent
	OrderID      int64     `json:"order_id"`
	UserID       string    `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	ClaimCode    string    `json:"claim_code"`
	CompletedAt  time.Time `json:"completed_at"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	BookID    int64           `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
