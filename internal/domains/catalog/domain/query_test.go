package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func product(id, name string, category Category, price string, bestSeller bool, tags ...string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Description: name + " daily support",
		BestSeller:  bestSeller,
		Tags:        tags,
	}
}

func fixture() []*Product {
	return []*Product{
		product("p1", "Zinc Picolinate", CategoryMinerals, "12.99", false, "immune"),
		product("p2", "vitamin D3", CategoryVitamins, "15.50", true, "bone"),
		product("p3", "Whey Isolate", CategoryProtein, "49.00", true, "muscle"),
		product("p4", "Magnesium Glycinate", CategoryMinerals, "22.00", false, "sleep"),
		product("p5", "Ashwagandha", CategorySupplements, "15.50", false, "stress"),
	}
}

func ids(products []*Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestQuery_DefaultReturnsAllByName(t *testing.T) {
	products := fixture()
	got := Query(products, Filter{Category: CategoryAll})
	require.Equal(t, []string{"p5", "p4", "p2", "p3", "p1"}, ids(got))
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	products := fixture()
	before := ids(products)
	_ = Query(products, Filter{SortBy: SortByPriceHigh})
	require.Equal(t, before, ids(products))
}

func TestQuery_SearchMatchesNameDescriptionOrTag(t *testing.T) {
	products := fixture()
	require.Equal(t, []string{"p2"}, ids(Query(products, Filter{Search: "VITAMIN"})))
	require.Equal(t, []string{"p4"}, ids(Query(products, Filter{Search: "sleep"})))
	require.Equal(t, []string{"p3"}, ids(Query(products, Filter{Search: "isolate daily"})))
	require.Empty(t, Query(products, Filter{Search: "collagen"}))
}

func TestQuery_SearchKeepsSurroundingWhitespace(t *testing.T) {
	products := fixture()
	// " d3" only matches where a space precedes "d3".
	require.Equal(t, []string{"p2"}, ids(Query(products, Filter{Search: " d3"})))
	require.Empty(t, Query(products, Filter{Search: " zinc"}))
	require.Empty(t, Query(products, Filter{Search: "   "}))
	require.Len(t, Query(products, Filter{Search: ""}), len(products))
}

func TestQuery_CombinesCriteria(t *testing.T) {
	products := fixture()
	got := Query(products, Filter{
		Category:   CategoryMinerals,
		PriceRange: &PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)},
	})
	require.Equal(t, []string{"p1"}, ids(got))

	got = Query(products, Filter{BestSellersOnly: true, SortBy: SortByPriceHigh})
	require.Equal(t, []string{"p3", "p2"}, ids(got))
}

func TestQuery_PriceRangeIsInclusive(t *testing.T) {
	products := fixture()
	got := Query(products, Filter{PriceRange: &PriceRange{
		Min: decimal.RequireFromString("15.50"),
		Max: decimal.RequireFromString("22.00"),
	}, SortBy: SortByPriceLow})
	require.Equal(t, []string{"p2", "p5", "p4"}, ids(got))
}

func TestQuery_BestSellersFirstThenName(t *testing.T) {
	got := Query(fixture(), Filter{SortBy: SortByBestSellers})
	require.Equal(t, []string{"p2", "p3", "p5", "p4", "p1"}, ids(got))
	seenRegular := false
	for _, p := range got {
		if !p.BestSeller {
			seenRegular = true
			continue
		}
		require.False(t, seenRegular, "best seller %s sorted after a regular product", p.ID)
	}
}

func TestQuery_PriceTiesKeepCatalogOrder(t *testing.T) {
	got := Query(fixture(), Filter{SortBy: SortByPriceLow})
	require.Equal(t, []string{"p1", "p2", "p5", "p4", "p3"}, ids(got))
}

func TestFilterValidate(t *testing.T) {
	require.NoError(t, Filter{}.Validate())
	require.ErrorIs(t, Filter{Category: "Snacks"}.Validate(), ErrInvalidCategory)
	require.ErrorIs(t, Filter{SortBy: "rating"}.Validate(), ErrInvalidSort)
	require.ErrorIs(t, Filter{PriceRange: &PriceRange{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(1)}}.Validate(), ErrInvalidPriceRange)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("protein")
	require.NoError(t, err)
	require.Equal(t, CategoryProtein, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	require.Equal(t, CategoryAll, c)
}

func TestPriceBoundsAndBestSellers(t *testing.T) {
	lo, hi := PriceBounds(fixture())
	require.Equal(t, "12.99", lo.StringFixed(2))
	require.Equal(t, "49.00", hi.StringFixed(2))

	lo, hi = PriceBounds(nil)
	require.True(t, lo.IsZero())
	require.True(t, hi.IsZero())

	require.Equal(t, []string{"p2"}, ids(BestSellers(fixture(), 1)))
	require.Equal(t, []string{"p2", "p3"}, ids(BestSellers(fixture(), 0)))
}

func TestProductValidate(t *testing.T) {
	p := product("p1", "Zinc", CategoryMinerals, "1.00", false)
	require.NoError(t, p.Validate())

	p.Category = CategoryAll
	require.ErrorIs(t, p.Validate(), ErrInvalidCategory)

	p = product("p1", "Zinc", CategoryMinerals, "-1.00", false)
	require.ErrorIs(t, p.Validate(), ErrNegativePrice)

	p = product("p1", "Zinc", CategoryMinerals, "1.00", false)
	p.Rating = 5.5
	require.ErrorIs(t, p.Validate(), ErrInvalidRating)
}

func TestProductCloneIsDeep(t *testing.T) {
	p := product("p1", "Zinc", CategoryMinerals, "1.00", false, "immune")
	clone := p.Clone()
	clone.Tags[0] = "changed"
	require.Equal(t, "immune", p.Tags[0])
}
