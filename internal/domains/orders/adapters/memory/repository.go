package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in process memory. The backing slice is in insertion order and indexed
// by id; reads present it most recent first.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	byID   map[string]int
}

// NewRepository loads initial orders, which must already be most-recent-first.
func NewRepository(initial ...*domain.Order) (*Repository, error) {
	r := &Repository{
		orders: make([]*domain.Order, 0, len(initial)),
		byID:   make(map[string]int, len(initial)),
	}
	for i := len(initial) - 1; i >= 0; i-- {
		o := initial[i]
		if o == nil {
			return nil, errors.New("cannot load nil order")
		}
		if _, dup := r.byID[o.ID]; dup {
			return nil, fmt.Errorf("load order %s: %w", o.ID, ports.ErrConflict)
		}
		r.append(o.Clone())
	}
	return r, nil
}

// Add inserts the order ahead of every stored one.
func (r *Repository) Add(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("cannot add nil order")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[order.ID]; ok {
		return nil, ports.ErrConflict
	}
	stored := order.Clone()
	r.append(stored)
	return stored.Clone(), nil
}

// GetByID returns a copy of the order.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.orders[i].Clone(), nil
}

// Update mutates a copy and swaps it in only when mutate succeeds.
func (r *Repository) Update(_ context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	working := r.orders[i].Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = id
	r.orders[i] = working
	return working.Clone(), nil
}

// List returns copies of every order, most recent first.
func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, r.orders[i].Clone())
	}
	return out, nil
}

func (r *Repository) append(o *domain.Order) {
	r.byID[o.ID] = len(r.orders)
	r.orders = append(r.orders, o)
}
