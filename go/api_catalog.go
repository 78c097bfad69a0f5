package storefrontserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	catalogmapper "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/storefront-api/internal/domains/catalog/adapters/seed"
	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

// DefaultFeaturedLimit is the number of best sellers on the landing page.
const DefaultFeaturedLimit = 4

// CatalogAPI serves the read-only product catalog and static content.
type CatalogAPI struct {
	service catalogports.Service
	faqs    []seed.FAQ
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service and FAQ content.
func NewCatalogAPI(service catalogports.Service, faqs []seed.FAQ) CatalogAPI {
	if faqs == nil {
		faqs = []seed.FAQ{}
	}
	return CatalogAPI{service: service, faqs: faqs}
}

// ListProductsParams are the catalog query parameters.
type ListProductsParams struct {
	Search      *string `form:"search"`
	Category    *string `form:"category"`
	MinPrice    *string `form:"minPrice"`
	MaxPrice    *string `form:"maxPrice"`
	BestSellers *bool   `form:"bestSellers"`
	SortBy      *string `form:"sortBy"`
}

// Get /v1/products
// Query the catalog
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	var params ListProductsParams
	query := c.Request.URL.Query()
	for name, dest := range map[string]any{
		"search":      &params.Search,
		"category":    &params.Category,
		"minPrice":    &params.MinPrice,
		"maxPrice":    &params.MaxPrice,
		"bestSellers": &params.BestSellers,
		"sortBy":      &params.SortBy,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			respondError(c, fmt.Errorf("invalid format for parameter %s: %w", name, err))
			return
		}
	}
	input, err := params.toInput()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := api.service.ListProducts(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProductList(result))
}

func (p ListProductsParams) toInput() (catalogtypes.ListProductsInput, error) {
	input := catalogtypes.ListProductsInput{
		Search:          deref(p.Search),
		Category:        deref(p.Category),
		SortBy:          deref(p.SortBy),
		BestSellersOnly: p.BestSellers != nil && *p.BestSellers,
	}
	var err error
	if input.MinPrice, err = parsePrice("minPrice", p.MinPrice); err != nil {
		return input, err
	}
	if input.MaxPrice, err = parsePrice("maxPrice", p.MaxPrice); err != nil {
		return input, err
	}
	return input, nil
}

func parsePrice(name string, raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return &value, nil
}

// Get /v1/products/featured
// List best sellers
func (api *CatalogAPI) FeaturedProducts(c *gin.Context) {
	limit := DefaultFeaturedLimit
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &limit); err != nil {
		respondError(c, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}
	products, err := api.service.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainList(products))
}

// Get /v1/products/:productId
// Find product by ID
func (api *CatalogAPI) GetProductById(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomain(product))
}

// Get /v1/categories
// List category filter options
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, catalogmapper.FromCategories(api.service.Categories(c.Request.Context())))
}

// Get /v1/faqs
// List frequently asked questions
func (api *CatalogAPI) ListFaqs(c *gin.Context) {
	c.JSON(http.StatusOK, api.faqs)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
