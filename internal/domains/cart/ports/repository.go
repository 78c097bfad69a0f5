package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/shared/projection"
)

var ErrNotFound = errors.New("cart not found")

// Repository persists one cart per session.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*projection.Projection[*domain.Cart], error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) (*projection.Projection[*domain.Cart], error)
	Delete(ctx context.Context, sessionID string) error
}

// ProductLookup resolves catalog products referenced by cart lines.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}
