package seed

import (
	"testing"

	"github.com/stretchr/testify/require"

	catalogseed "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/seed"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

func TestOrders(t *testing.T) {
	products, err := catalogseed.Products()
	require.NoError(t, err)

	orders, err := Orders(products)
	require.NoError(t, err)
	require.Len(t, orders, 8)

	for i := 1; i < len(orders); i++ {
		require.False(t, orders[i].OrderDate.After(orders[i-1].OrderDate), "orders must be most recent first")
	}

	first := orders[0]
	require.Equal(t, "ORD-2024-0008", first.ID)
	require.Equal(t, domain.StatusPending, first.Status)
	require.Equal(t, "82.98", first.Subtotal.StringFixed(2))
	require.True(t, first.Shipping.IsZero())

	d := domain.Summarize(orders, domain.RecentOrdersShown)
	require.Equal(t, 2, d.PendingOrders)
}

func TestDecodeOrders_UnknownProduct(t *testing.T) {
	raw := []byte(`[{"id":"ORD-X","customer":{},"items":[{"productId":"nope","quantity":1}],"status":"pending","orderDate":"2024-01-01T00:00:00Z"}]`)
	_, err := DecodeOrders(raw, nil)
	require.ErrorContains(t, err, "unknown product")
}
