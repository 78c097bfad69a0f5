package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// DefaultProcessingDelay is the simulated payment processing time.
const DefaultProcessingDelay = 2 * time.Second

// CheckoutOption customizes the checkout coordinator.
type CheckoutOption func(*CheckoutCoordinator)

// WithProcessingDelay overrides the simulated processing delay. Negative values are treated as zero.
func WithProcessingDelay(d time.Duration) CheckoutOption {
	return func(c *CheckoutCoordinator) {
		if d < 0 {
			d = 0
		}
		c.delay = d
	}
}

// WithIdempotencyStore enables Idempotency-Key replays.
func WithIdempotencyStore(store ports.IdempotencyStore) CheckoutOption {
	return func(c *CheckoutCoordinator) {
		c.idempotency = store
	}
}

// WithCheckoutLogger sets the coordinator logger.
func WithCheckoutLogger(logger *slog.Logger) CheckoutOption {
	return func(c *CheckoutCoordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// CheckoutCoordinator runs the shopper checkout: validation, replay, re-entry guard, then the
// orchestrated commit.
type CheckoutCoordinator struct {
	carts        ports.CartSource
	orders       ports.Repository
	orchestrator ports.CheckoutOrchestrator
	guard        ports.CheckoutGuard
	idempotency  ports.IdempotencyStore
	delay        time.Duration
	logger       *slog.Logger
}

// NewCheckoutCoordinator wires the checkout collaborators.
func NewCheckoutCoordinator(carts ports.CartSource, orders ports.Repository, orchestrator ports.CheckoutOrchestrator, guard ports.CheckoutGuard, opts ...CheckoutOption) *CheckoutCoordinator {
	c := &CheckoutCoordinator{
		carts:        carts,
		orders:       orders,
		orchestrator: orchestrator,
		guard:        guard,
		delay:        DefaultProcessingDelay,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Checkout places an order from the session cart. Nothing is created when validation fails or the
// cart is empty, and a second checkout for the same session fails while the first is pending.
func (c *CheckoutCoordinator) Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.CheckoutResult, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, mapError(ErrMissingSession)
	}
	if err := domain.ValidateCustomer(input.Customer); err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && c.idempotency != nil {
		hash, err := FingerprintCheckout(input)
		if err != nil {
			return nil, fmt.Errorf("fingerprint checkout: %w", err)
		}
		fingerprint = hash
		replayed, err := c.replay(ctx, key, fingerprint)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	items, err := c.carts.Snapshot(ctx, input.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	acquired, err := c.guard.Acquire(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("acquire checkout guard: %w", err)
	}
	if !acquired {
		return nil, ports.ErrCheckoutInProgress
	}
	defer func() {
		if err := c.guard.Release(context.WithoutCancel(ctx), input.SessionID); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "checkout guard release failed",
				slog.String("sessionId", input.SessionID), slog.String("error", err.Error()))
		}
	}()

	order, err := c.orchestrator.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		SessionID:       input.SessionID,
		Customer:        input.Customer,
		IdempotencyKey:  key,
		ProcessingDelay: c.delay,
	})
	if err != nil {
		return nil, err
	}

	if fingerprint != "" {
		_, err := c.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: order.ID})
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "idempotency record not saved",
				slog.String("orderId", order.ID), slog.String("error", err.Error()))
		}
	}
	return &ordertypes.CheckoutResult{Order: order}, nil
}

func (c *CheckoutCoordinator) replay(ctx context.Context, key, fingerprint string) (*ordertypes.CheckoutResult, error) {
	record, err := c.idempotency.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load idempotency record: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := c.orders.GetByID(ctx, record.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ordertypes.CheckoutResult{Order: order, Replayed: true}, nil
}

var _ ports.CheckoutService = (*CheckoutCoordinator)(nil)
