package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository is the read-only catalog store. Implementations return copies in catalog order.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}
