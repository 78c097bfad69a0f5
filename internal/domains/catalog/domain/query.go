package domain

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects how a filtered product list is ordered.
type SortOrder string

const (
	SortByName        SortOrder = "name"
	SortByPriceLow    SortOrder = "price-low"
	SortByPriceHigh   SortOrder = "price-high"
	SortByBestSellers SortOrder = "best-sellers"
)

var (
	ErrInvalidSort       = errors.New("unknown product sort order")
	ErrInvalidPriceRange = errors.New("price range minimum must not exceed maximum")
)

// ParseSortOrder resolves a sort option. An empty value selects name ordering.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(raw)) {
	case "", SortByName:
		return SortByName, nil
	case SortByPriceLow:
		return SortByPriceLow, nil
	case SortByPriceHigh:
		return SortByPriceHigh, nil
	case SortByBestSellers:
		return SortByBestSellers, nil
	}
	return "", ErrInvalidSort
}

// PriceRange is an inclusive price window.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether price lies in [Min, Max].
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// Filter describes a catalog query. All criteria are AND-combined.
type Filter struct {
	Search          string
	Category        Category
	PriceRange      *PriceRange
	BestSellersOnly bool
	SortBy          SortOrder
}

// Validate rejects filters that cannot match anything by construction.
func (f Filter) Validate() error {
	if f.Category != "" {
		if _, err := ParseCategory(string(f.Category)); err != nil {
			return err
		}
	}
	if f.SortBy != "" {
		if _, err := ParseSortOrder(string(f.SortBy)); err != nil {
			return err
		}
	}
	if f.PriceRange != nil && f.PriceRange.Min.GreaterThan(f.PriceRange.Max) {
		return ErrInvalidPriceRange
	}
	return nil
}

// Matches applies the filter criteria to a single product.
func (f Filter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
		return false
	}
	if f.PriceRange != nil && !f.PriceRange.Contains(p.Price) {
		return false
	}
	if f.BestSellersOnly && !p.BestSeller {
		return false
	}
	return matchesSearch(p, f.Search)
}

func matchesSearch(p *Product, search string) bool {
	needle := strings.ToLower(search)
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Query filters and sorts products without touching the input slice.
func Query(products []*Product, filter Filter) []*Product {
	result := make([]*Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	sortProducts(result, filter.SortBy)
	return result
}

func sortProducts(products []*Product, order SortOrder) {
	names := collate.New(language.English, collate.Loose)
	byName := func(a, b *Product) bool {
		if c := names.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	}
	var less func(a, b *Product) bool
	switch order {
	case SortByPriceLow:
		less = func(a, b *Product) bool { return a.Price.LessThan(b.Price) }
	case SortByPriceHigh:
		less = func(a, b *Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortByBestSellers:
		less = func(a, b *Product) bool {
			if a.BestSeller != b.BestSeller {
				return a.BestSeller
			}
			return byName(a, b)
		}
	default:
		less = byName
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// PriceBounds returns the lowest and highest catalog price. Both are zero for an empty catalog.
func PriceBounds(products []*Product) (decimal.Decimal, decimal.Decimal) {
	var lo, hi decimal.Decimal
	for i, p := range products {
		if i == 0 || p.Price.LessThan(lo) {
			lo = p.Price
		}
		if i == 0 || p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	return lo, hi
}

// BestSellers returns up to limit best-selling products in catalog order. A non-positive limit returns all of them.
func BestSellers(products []*Product, limit int) []*Product {
	var result []*Product
	for _, p := range products {
		if !p.BestSeller {
			continue
		}
		result = append(result, p)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}
