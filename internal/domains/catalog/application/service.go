package application

import (
	"context"

	"github.com/shopspring/decimal"

	types "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its store.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// ListProducts runs the catalog query engine over the full catalog.
func (s *Service) ListProducts(ctx context.Context, input types.ListProductsInput) (*types.ProductList, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	lo, hi := domain.PriceBounds(products)
	filter, err := buildFilter(input, hi)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.ProductList{
		Products:    domain.Query(products, filter),
		CatalogSize: len(products),
		MinPrice:    lo,
		MaxPrice:    hi,
	}, nil
}

// FeaturedProducts returns the best sellers shown on the landing page.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return domain.BestSellers(products, limit), nil
}

// Categories lists the category filter options.
func (s *Service) Categories(context.Context) []domain.Category {
	return domain.Categories()
}

// buildFilter defaults a half-open price window to [0, catalogMax].
func buildFilter(input types.ListProductsInput, catalogMax decimal.Decimal) (domain.Filter, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return domain.Filter{}, err
	}
	sortBy, err := domain.ParseSortOrder(input.SortBy)
	if err != nil {
		return domain.Filter{}, err
	}
	filter := domain.Filter{
		Search:          input.Search,
		Category:        category,
		BestSellersOnly: input.BestSellersOnly,
		SortBy:          sortBy,
	}
	if input.MinPrice != nil || input.MaxPrice != nil {
		window := domain.PriceRange{Min: decimal.Zero, Max: catalogMax}
		if input.MinPrice != nil {
			window.Min = *input.MinPrice
		}
		if input.MaxPrice != nil {
			window.Max = *input.MaxPrice
		}
		filter.PriceRange = &window
	}
	return filter, filter.Validate()
}
