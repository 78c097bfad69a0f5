package ports

import (
	"context"

	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// Service defines the catalog use cases exposed to adapters (inbound/driving port).
type Service interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) (*catalogtypes.ProductList, error)
	FeaturedProducts(ctx context.Context, limit int) ([]*domain.Product, error)
	Categories(ctx context.Context) []domain.Category
}
