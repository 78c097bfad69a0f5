package domain

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

func newProduct(id, price string) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: catalogdomain.CategoryVitamins,
		Price:    decimal.RequireFromString(price),
	}
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	c := New()
	p := newProduct("a", "10.00")
	require.NoError(t, c.Add(p, 2))
	require.NoError(t, c.Add(p, 3))

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, 5, c.TotalItems())
	require.Equal(t, "50.00", c.TotalPrice().StringFixed(2))
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	require.ErrorIs(t, c.Add(newProduct("a", "1.00"), 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(newProduct("a", "1.00"), -2), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(nil, 1), ErrNilProduct)
	require.True(t, c.IsEmpty())
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(newProduct("b", "1.00"), 1))
	require.NoError(t, c.Add(newProduct("a", "1.00"), 1))
	require.NoError(t, c.Add(newProduct("b", "1.00"), 1))

	items := c.Items()
	require.Equal(t, "b", items[0].Product.ID)
	require.Equal(t, "a", items[1].Product.ID)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(newProduct("a", "4.25"), 1))

	c.UpdateQuantity("a", 4)
	require.Equal(t, 4, c.Quantity("a"))
	require.Equal(t, "17.00", c.TotalPrice().StringFixed(2))

	c.UpdateQuantity("missing", 3)
	require.Equal(t, 4, c.TotalItems())

	c.UpdateQuantity("a", 0)
	require.True(t, c.IsEmpty())
	require.True(t, c.TotalPrice().IsZero())
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(newProduct("a", "1.00"), 1))
	require.NoError(t, c.Add(newProduct("b", "2.00"), 2))

	c.Remove("missing")
	require.Len(t, c.Items(), 2)

	c.Remove("a")
	require.Equal(t, []string{"b"}, []string{c.Items()[0].Product.ID})

	c.Clear()
	require.True(t, c.IsEmpty())
	require.Zero(t, c.TotalItems())
}

func TestDeduct(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(newProduct("a", "1.00"), 3))
	require.NoError(t, c.Add(newProduct("b", "2.00"), 1))

	c.Deduct("a", 2)
	require.Equal(t, 1, c.Quantity("a"))
	c.Deduct("b", 5)
	require.Zero(t, c.Quantity("b"))
	c.Deduct("missing", 1)
	c.Deduct("a", 0)

	require.Len(t, c.Items(), 1)
	require.Equal(t, 1, c.TotalItems())
}

func TestSnapshotIsDetached(t *testing.T) {
	c := New()
	p := newProduct("a", "3.00")
	require.NoError(t, c.Add(p, 1))

	snap := c.Snapshot()
	p.Price = decimal.NewFromInt(100)
	c.UpdateQuantity("a", 9)

	require.Equal(t, 1, snap[0].Quantity)
	require.Equal(t, "3.00", snap[0].Product.Price.StringFixed(2))
}

func TestShippingAndFreeShippingGap(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(newProduct("a", "74.99"), 1))
	require.Equal(t, "9.99", c.Shipping().StringFixed(2))
	require.Equal(t, "0.01", c.AmountToFreeShipping().StringFixed(2))

	c.Clear()
	require.NoError(t, c.Add(newProduct("b", "25.00"), 3))
	require.True(t, c.Shipping().IsZero())
	require.True(t, c.AmountToFreeShipping().IsZero())
}

func TestRestoreMergesAndDropsEmptyLines(t *testing.T) {
	a := newProduct("a", "1.00")
	c := Restore([]LineItem{{Product: a, Quantity: 1}, {Product: nil, Quantity: 3}, {Product: a, Quantity: 2}, {Product: newProduct("b", "1.00"), Quantity: 0}})
	require.Len(t, c.Items(), 1)
	require.Equal(t, 3, c.Quantity("a"))
}

// Totals are recomputed from the lines, so they always agree with a fresh sum.
func TestTotalsMatchRecomputedSums(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	products := []*catalogdomain.Product{
		newProduct("a", "0.10"), newProduct("b", "19.99"), newProduct("c", "3.33"), newProduct("d", "54.99"),
	}
	c := New()
	for step := 0; step < 500; step++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, c.Add(p, 1+rng.Intn(4)))
		case 1:
			c.UpdateQuantity(p.ID, rng.Intn(6)-1)
		case 2:
			c.Remove(p.ID)
		}

		wantItems := 0
		wantPrice := decimal.Zero
		for _, item := range c.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1, spew.Sdump(c.Items()))
			wantItems += item.Quantity
			wantPrice = wantPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.Equal(t, wantItems, c.TotalItems())
		require.Truef(t, wantPrice.Equal(c.TotalPrice()), "step %d: %s", step, spew.Sdump(c.Items()))
	}
}
