package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// ListProductsInput carries the raw catalog query as received from a transport.
type ListProductsInput struct {
	Search          string
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	BestSellersOnly bool
	SortBy          string
}

// ProductList is a filtered catalog view plus the figures a filter panel needs.
type ProductList struct {
	Products    []*domain.Product
	CatalogSize int
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
}
