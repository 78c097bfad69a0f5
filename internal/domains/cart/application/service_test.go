package application

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	types "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

func newService(t *testing.T) *Service {
	t.Helper()
	catalog, err := catalogmemory.NewRepository([]*catalogdomain.Product{
		{ID: "whey", Name: "Whey", Category: catalogdomain.CategoryProtein, Price: decimal.RequireFromString("54.99"), InStock: true},
		{ID: "zinc", Name: "Zinc", Category: catalogdomain.CategoryMinerals, Price: decimal.RequireFromString("11.99"), InStock: true},
		{ID: "b-complex", Name: "B-Complex", Category: catalogdomain.CategoryVitamins, Price: decimal.RequireFromString("22.00")},
	})
	require.NoError(t, err)
	return NewService(cartmemory.NewRepository(), catalogapp.NewService(catalog))
}

func TestGetCart_UnknownSessionIsEmpty(t *testing.T) {
	svc := newService(t)
	cart, err := svc.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.Entity.IsEmpty())
	require.False(t, cart.Metadata.CreatedAt.IsZero())
}

func TestAddItem(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "whey", Quantity: 2})
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "whey", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Entity.Items(), 1)
	require.Equal(t, 5, cart.Entity.TotalItems())
	require.Equal(t, "274.95", cart.Entity.TotalPrice().StringFixed(2))

	other, err := svc.GetCart(ctx, "s2")
	require.NoError(t, err)
	require.True(t, other.Entity.IsEmpty())
}

func TestAddItem_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "whey", Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "nope", Quantity: 1})
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddItem(ctx, types.AddItemInput{ProductID: "whey", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	cart, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.True(t, cart.Entity.IsEmpty())
}

func TestAddItem_OutOfStock(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "b-complex", Quantity: 3})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "zinc", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "b-complex", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrOutOfStock)

	cart, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Entity.Items(), 1)
	require.Zero(t, cart.Entity.Quantity("b-complex"))
}

func TestUpdateRemoveClear(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "whey", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "zinc", Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, types.UpdateQuantityInput{SessionID: "s1", ProductID: "zinc", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 5, cart.Entity.TotalItems())

	cart, err = svc.UpdateQuantity(ctx, types.UpdateQuantityInput{SessionID: "s1", ProductID: "whey", Quantity: 0})
	require.NoError(t, err)
	require.Equal(t, 4, cart.Entity.TotalItems())

	cart, err = svc.RemoveItem(ctx, types.ItemIdentifier{SessionID: "s1", ProductID: "zinc"})
	require.NoError(t, err)
	require.True(t, cart.Entity.IsEmpty())

	_, err = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "zinc", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "s1"))
	require.NoError(t, svc.Clear(ctx, "s1"))

	cart, err = svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.True(t, cart.Entity.IsEmpty())
}

func TestAddItem_ConcurrentSameSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(ctx, types.AddItemInput{SessionID: "s1", ProductID: "zinc", Quantity: 1})
		}()
	}
	wg.Wait()

	cart, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 20, cart.Entity.TotalItems())
	require.Empty(t, svc.locks)
}
