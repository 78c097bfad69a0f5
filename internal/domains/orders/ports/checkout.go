package ports

import (
	"context"
	"errors"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// ErrCheckoutInProgress rejects a second checkout for a session while one is pending.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// CartSource gives checkout read access to a session cart. After commit, Deduct removes exactly
// the ordered lines so units added meanwhile stay in the cart.
type CartSource interface {
	Snapshot(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Deduct(ctx context.Context, sessionID string, items []domain.LineItem) error
}

// CheckoutOrchestrator runs the simulated processing delay and then commits the order.
type CheckoutOrchestrator interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error)
}

// CheckoutGuard allows one in-flight checkout per session.
type CheckoutGuard interface {
	// Acquire returns false when the session already holds the guard.
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// EventPublisher delivers order domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
