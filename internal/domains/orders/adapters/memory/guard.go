package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.CheckoutGuard = (*CheckoutGuard)(nil)

// CheckoutGuard tracks in-flight checkouts for a single process.
type CheckoutGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewCheckoutGuard constructs an empty guard.
func NewCheckoutGuard() *CheckoutGuard {
	return &CheckoutGuard{active: map[string]struct{}{}}
}

// Acquire marks the session busy. It returns false when it already is.
func (g *CheckoutGuard) Acquire(_ context.Context, sessionID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[sessionID]; busy {
		return false, nil
	}
	g.active[sessionID] = struct{}{}
	return true, nil
}

// Release frees the session.
func (g *CheckoutGuard) Release(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, sessionID)
	return nil
}
