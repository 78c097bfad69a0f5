package domain

// ListView is the provider order list state: a filter plus the active page.
// Any filter change resets the page to 1.
type ListView struct {
	filter   Filter
	page     int
	pageSize int
	started  bool
}

// NewListView returns a view on page 1 with the default filter.
func NewListView(pageSize int) *ListView {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &ListView{filter: Filter{Status: StatusAll, SortBy: SortDateDesc}, page: 1, pageSize: pageSize}
}

// Filter returns the active filter.
func (v *ListView) Filter() Filter {
	return v.filter
}

// CurrentPage returns the active page.
func (v *ListView) CurrentPage() int {
	return v.page
}

// SetFilter replaces the filter and resets to page 1.
func (v *ListView) SetFilter(f Filter) {
	v.filter = f
	v.page = 1
	v.started = true
}

// SetPage moves to a page. Values below 1 are raised to 1.
func (v *ListView) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
	v.started = true
}

// Apply records a request's filter and page. A changed filter discards the requested page and returns to page 1.
// A page below 1 keeps the current page.
func (v *ListView) Apply(f Filter, page int) {
	if v.started && !v.filter.Equal(f) {
		v.SetFilter(f)
		return
	}
	v.filter = f
	v.started = true
	if page >= 1 {
		v.page = page
	}
}

// Render queries the orders for the active state, clamping the page to the last available one.
func (v *ListView) Render(orders []*Order) Page {
	filtered := Filtered(orders, v.filter)
	totalPages := (len(filtered) + v.pageSize - 1) / v.pageSize
	if totalPages > 0 && v.page > totalPages {
		v.page = totalPages
	}
	return Paginate(filtered, v.page, v.pageSize)
}
