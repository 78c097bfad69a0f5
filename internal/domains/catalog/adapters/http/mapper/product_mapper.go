package mapper

import (
	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/shared/pricing"
)

// Product is the HTTP representation of a catalog entry. Prices are 2-decimal strings.
type Product struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Category             string   `json:"category"`
	Price                string   `json:"price"`
	Description          string   `json:"description"`
	LongDescription      string   `json:"longDescription,omitempty"`
	Image                string   `json:"image,omitempty"`
	Images               []string `json:"images,omitempty"`
	BestSeller           bool     `json:"bestSeller"`
	InStock              bool     `json:"inStock"`
	Rating               float64  `json:"rating"`
	ReviewCount          int      `json:"reviewCount"`
	Certifications       []string `json:"certifications,omitempty"`
	Ingredients          []string `json:"ingredients,omitempty"`
	Benefits             []string `json:"benefits,omitempty"`
	ServingSize          string   `json:"servingSize,omitempty"`
	ServingsPerContainer int      `json:"servingsPerContainer,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
}

// ProductList is the catalog query response.
type ProductList struct {
	Items       []Product `json:"items"`
	Count       int       `json:"count"`
	CatalogSize int       `json:"catalogSize"`
	MinPrice    string    `json:"minPrice"`
	MaxPrice    string    `json:"maxPrice"`
}

// FromDomain maps a product for transport.
func FromDomain(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:                   p.ID,
		Name:                 p.Name,
		Category:             string(p.Category),
		Price:                pricing.Display(p.Price),
		Description:          p.Description,
		LongDescription:      p.LongDescription,
		Image:                p.Image,
		Images:               p.Images,
		BestSeller:           p.BestSeller,
		InStock:              p.InStock,
		Rating:               p.Rating,
		ReviewCount:          p.ReviewCount,
		Certifications:       p.Certifications,
		Ingredients:          p.Ingredients,
		Benefits:             p.Benefits,
		ServingSize:          p.ServingSize,
		ServingsPerContainer: p.ServingsPerContainer,
		Tags:                 p.Tags,
	}
}

// FromDomainList maps a slice of products, never returning nil.
func FromDomainList(products []*domain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, FromDomain(p))
	}
	return result
}

// FromProductList maps a filtered catalog view.
func FromProductList(list *catalogtypes.ProductList) ProductList {
	if list == nil {
		return ProductList{Items: []Product{}}
	}
	items := FromDomainList(list.Products)
	return ProductList{
		Items:       items,
		Count:       len(items),
		CatalogSize: list.CatalogSize,
		MinPrice:    pricing.Display(list.MinPrice),
		MaxPrice:    pricing.Display(list.MaxPrice),
	}
}

// FromCategories maps category names.
func FromCategories(categories []domain.Category) []string {
	result := make([]string, 0, len(categories))
	for _, c := range categories {
		result = append(result, string(c))
	}
	return result
}
