package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrConflict = errors.New("order id already exists")
)

// Repository is the order store. Orders are never deleted.
type Repository interface {
	// Add inserts a new order at the front of the store. Duplicate ids fail with ErrConflict.
	Add(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// Update applies mutate to the stored order atomically. ErrNotFound leaves the store untouched,
	// and so does an error returned by mutate.
	Update(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error)
	// List returns every order, most recent first.
	List(ctx context.Context) ([]*domain.Order, error)
}
