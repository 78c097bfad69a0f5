package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog.
type Category string

const (
	CategoryAll         Category = "All"
	CategoryVitamins    Category = "Vitamins"
	CategoryMinerals    Category = "Minerals"
	CategoryProtein     Category = "Protein"
	CategorySupplements Category = "Supplements"
)

// Categories lists the filter options in display order, starting with the All sentinel.
func Categories() []Category {
	return []Category{CategoryAll, CategoryVitamins, CategoryMinerals, CategoryProtein, CategorySupplements}
}

// ParseCategory resolves a category name case-insensitively. An empty name means All.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(string(c), trimmed) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Product is a catalog entry. Products are created at load time and never mutated afterwards.
type Product struct {
	ID                   string
	Name                 string
	Category             Category
	Price                decimal.Decimal
	Description          string
	LongDescription      string
	Image                string
	Images               []string
	BestSeller           bool
	InStock              bool
	Rating               float64
	ReviewCount          int
	Certifications       []string
	Ingredients          []string
	Benefits             []string
	ServingSize          string
	ServingsPerContainer int
	Tags                 []string
}

var (
	ErrEmptyID          = errors.New("product id is required")
	ErrEmptyName        = errors.New("product name is required")
	ErrInvalidCategory  = errors.New("unknown product category")
	ErrNegativePrice    = errors.New("product price must be greater or equal to zero")
	ErrInvalidRating    = errors.New("product rating must be between 0 and 5")
	ErrNegativeQuantity = errors.New("product counts must be greater or equal to zero")
)

// Validate checks the invariants every loaded product must satisfy.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	switch p.Category {
	case CategoryVitamins, CategoryMinerals, CategoryProtein, CategorySupplements:
	default:
		return ErrInvalidCategory
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Rating < 0 || p.Rating > 5 {
		return ErrInvalidRating
	}
	if p.ReviewCount < 0 || p.ServingsPerContainer < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias the catalog's slices.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Images = cloneStrings(p.Images)
	clone.Certifications = cloneStrings(p.Certifications)
	clone.Ingredients = cloneStrings(p.Ingredients)
	clone.Benefits = cloneStrings(p.Benefits)
	clone.Tags = cloneStrings(p.Tags)
	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
