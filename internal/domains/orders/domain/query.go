package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// DefaultPageSize is the provider list page size.
const DefaultPageSize = 10

// SortOrder selects how filtered orders are ordered.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
)

var (
	ErrInvalidSort      = errors.New("unknown order sort order")
	ErrInvalidDateRange = errors.New("date range start must not be after end")
)

// ParseSortOrder resolves a sort option. An empty value selects newest first.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(raw)) {
	case "", SortDateDesc:
		return SortDateDesc, nil
	case SortDateAsc:
		return SortDateAsc, nil
	case SortAmountDesc:
		return SortAmountDesc, nil
	case SortAmountAsc:
		return SortAmountAsc, nil
	}
	return "", ErrInvalidSort
}

// DateRange bounds the order timestamp. Both ends are optional and inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Filter describes an order query. Criteria are AND-combined.
type Filter struct {
	Search    string
	Status    string
	DateRange DateRange
	SortBy    SortOrder
}

// Validate rejects unknown statuses, sorts and inverted date ranges.
func (f Filter) Validate() error {
	if f.Status != "" && f.Status != StatusAll {
		if _, err := ParseStatus(f.Status); err != nil {
			return err
		}
	}
	if f.SortBy != "" {
		if _, err := ParseSortOrder(string(f.SortBy)); err != nil {
			return err
		}
	}
	if f.DateRange.Start != nil && f.DateRange.End != nil && f.DateRange.Start.After(*f.DateRange.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// Equal reports whether two filters select and order the same orders.
func (f Filter) Equal(other Filter) bool {
	return f.Search == other.Search &&
		f.Status == other.Status &&
		f.SortBy == other.SortBy &&
		timesEqual(f.DateRange.Start, other.DateRange.Start) &&
		timesEqual(f.DateRange.End, other.DateRange.End)
}

// Matches applies the filter criteria to a single order.
func (f Filter) Matches(o *Order) bool {
	if o == nil {
		return false
	}
	if f.Status != "" && f.Status != StatusAll && string(o.Status) != f.Status {
		return false
	}
	if f.DateRange.Start != nil && o.OrderDate.Before(*f.DateRange.Start) {
		return false
	}
	if f.DateRange.End != nil && o.OrderDate.After(*f.DateRange.End) {
		return false
	}
	return matchesSearch(o, f.Search)
}

func matchesSearch(o *Order, search string) bool {
	needle := strings.ToLower(search)
	if needle == "" {
		return true
	}
	for _, field := range []string{o.ID, o.Customer.FirstName, o.Customer.LastName, o.Customer.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.Product.Name), needle) {
			return true
		}
	}
	return false
}

// Filtered returns the matching orders sorted by the filter's order. Ties keep input order.
func Filtered(orders []*Order, filter Filter) []*Order {
	result := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if filter.Matches(o) {
			result = append(result, o)
		}
	}
	var less func(a, b *Order) bool
	switch filter.SortBy {
	case SortDateAsc:
		less = func(a, b *Order) bool { return a.OrderDate.Before(b.OrderDate) }
	case SortAmountDesc:
		less = func(a, b *Order) bool { return a.TotalAmount.GreaterThan(b.TotalAmount) }
	case SortAmountAsc:
		less = func(a, b *Order) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	default:
		less = func(a, b *Order) bool { return a.OrderDate.After(b.OrderDate) }
	}
	sort.SliceStable(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

// Page is one page of a filtered order list.
type Page struct {
	Orders     []*Order
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
}

// Paginate slices a filtered list. Pages are 1-indexed; out-of-range pages are empty.
func Paginate(orders []*Order, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(orders)
	result := Page{
		Orders:     []*Order{},
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		TotalCount: total,
	}
	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	result.Orders = orders[start:end]
	return result
}

// Query filters, sorts and pages orders without touching the input slice.
func Query(orders []*Order, filter Filter, page, pageSize int) Page {
	return Paginate(Filtered(orders, filter), page, pageSize)
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
