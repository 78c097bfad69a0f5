package types

import (
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// CheckoutInput is a shopper's checkout submission.
type CheckoutInput struct {
	SessionID      string
	Customer       domain.Customer
	IdempotencyKey string
}

// CheckoutResult carries the placed order. Replayed is set when an idempotency key matched an earlier checkout.
type CheckoutResult struct {
	Order    *domain.Order
	Replayed bool
}

// PlaceOrderInput commits a session cart as an order. OrderID may be preassigned by a durable workflow
// so that retries of the commit stay idempotent.
type PlaceOrderInput struct {
	OrderID         string
	SessionID       string
	Customer        domain.Customer
	IdempotencyKey  string
	ProcessingDelay time.Duration
}

// UpdateStatusInput moves an order to a new status and optionally records tracking data.
type UpdateStatusInput struct {
	ID             string
	Status         string
	TrackingNumber *string
	Notes          *string
}

// ListOrdersInput queries the provider order list. ViewID, when set, keeps per-viewer paging state.
type ListOrdersInput struct {
	ViewID   string
	Filter   domain.Filter
	Page     int
	PageSize int
}
