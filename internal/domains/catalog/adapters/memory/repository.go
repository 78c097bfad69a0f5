package memory

import (
	"context"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an immutable in-memory catalog loaded once at startup.
type Repository struct {
	products []*domain.Product
	index    map[string]*domain.Product
}

// NewRepository validates and indexes the catalog. Duplicate identifiers are rejected.
func NewRepository(products []*domain.Product) (*Repository, error) {
	r := &Repository{
		products: make([]*domain.Product, 0, len(products)),
		index:    make(map[string]*domain.Product, len(products)),
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		stored := p.Clone()
		r.products = append(r.products, stored)
		r.index[stored.ID] = stored
	}
	return r, nil
}

// GetByID fetches a product if present.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.index[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p.Clone(), nil
}

// List returns the whole catalog in load order.
func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	result := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, p.Clone())
	}
	return result, nil
}
