package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once an order has been committed.
type OrderPlaced struct {
	BaseEvent
	OrderID     string
	Email       string
	ItemCount   int
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	TotalAmount decimal.Decimal
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// AggregateID returns the order id.
func (e OrderPlaced) AggregateID() string {
	return e.OrderID
}

// OrderStatusChanged is raised when the provider moves an order to a new status.
type OrderStatusChanged struct {
	BaseEvent
	OrderID    string
	FromStatus Status
	ToStatus   Status
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// AggregateID returns the order id.
func (e OrderStatusChanged) AggregateID() string {
	return e.OrderID
}

// NewOrderPlaced describes a committed order.
func NewOrderPlaced(o *Order) OrderPlaced {
	return OrderPlaced{
		BaseEvent:   BaseEvent{Timestamp: o.OrderDate},
		OrderID:     o.ID,
		Email:       o.Customer.Email,
		ItemCount:   o.ItemCount(),
		Subtotal:    o.Subtotal,
		Shipping:    o.Shipping,
		TotalAmount: o.TotalAmount,
	}
}
