package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
	"github.com/Apurer/storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps session carts in process memory.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]*storedCart
	now   func() time.Time
}

type storedCart struct {
	items    []domain.LineItem
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		carts: map[string]*storedCart{},
		now:   time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Get returns a copy of the session cart.
func (r *Repository) Get(_ context.Context, sessionID string) (*projection.Projection[*domain.Cart], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.carts[sessionID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return entry.projection(), nil
}

// Save replaces the session cart while keeping its creation time.
func (r *Repository) Save(_ context.Context, sessionID string, cart *domain.Cart) (*projection.Projection[*domain.Cart], error) {
	if cart == nil {
		return nil, errors.New("cannot save nil cart")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	metadata := projection.Fresh(timestamp)
	if existing, ok := r.carts[sessionID]; ok {
		metadata = existing.metadata.Rewritten(timestamp)
	}
	entry := &storedCart{items: cart.Snapshot(), metadata: metadata}
	r.carts[sessionID] = entry
	return entry.projection(), nil
}

// Delete drops the session cart.
func (r *Repository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[sessionID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.carts, sessionID)
	return nil
}

func (s *storedCart) projection() *projection.Projection[*domain.Cart] {
	cart := domain.Restore(s.items)
	return projection.Of(domain.Restore(cart.Snapshot()), s.metadata)
}
