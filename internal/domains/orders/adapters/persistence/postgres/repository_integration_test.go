//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	orderspg "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/platform/postgres/pgtest"
)

func newOrder(t *testing.T, id string, placed time.Time) *domain.Order {
	t.Helper()
	customer := domain.Customer{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "555-123-4567",
		Address: domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"},
	}
	items := []domain.LineItem{
		{Product: catalogdomain.Product{ID: "omega-3", Name: "Omega-3", Category: catalogdomain.CategorySupplements, Price: decimal.RequireFromString("24.99"), Tags: []string{"heart"}}, Quantity: 2},
		{Product: catalogdomain.Product{ID: "zinc-picolinate", Name: "Zinc", Category: catalogdomain.CategoryMinerals, Price: decimal.RequireFromString("12.50")}, Quantity: 1},
	}
	o, err := domain.NewOrder(id, customer, items, placed)
	require.NoError(t, err)
	return o
}

func TestRepository_RoundTripAndOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	repo := orderspg.NewRepository(pgtest.Start(t))
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	_, err := repo.Add(ctx, newOrder(t, "ORD-1", base))
	require.NoError(t, err)
	_, err = repo.Add(ctx, newOrder(t, "ORD-2", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Add(ctx, newOrder(t, "ORD-1", base))
	require.ErrorIs(t, err, ports.ErrConflict)

	got, err := repo.GetByID(ctx, "ORD-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "omega-3", got.Items[0].Product.ID)
	assert.Equal(t, []string{"heart"}, got.Items[0].Product.Tags)
	assert.Equal(t, "62.48", got.Subtotal.StringFixed(2))
	assert.Equal(t, "9.99", got.Shipping.StringFixed(2))
	assert.Equal(t, "72.47", got.TotalAmount.StringFixed(2))
	assert.True(t, base.Equal(got.OrderDate))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-2", list[0].ID)

	_, err = repo.GetByID(ctx, "ORD-404")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	repo := orderspg.NewRepository(pgtest.Start(t))
	_, err := repo.Add(ctx, newOrder(t, "ORD-1", time.Now()))
	require.NoError(t, err)

	_, err = repo.Update(ctx, "ORD-404", func(*domain.Order) error { return nil })
	require.ErrorIs(t, err, ports.ErrNotFound)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "ORD-1", func(o *domain.Order) error {
		o.Status = domain.StatusCancelled
		return boom
	})
	require.ErrorIs(t, err, boom)

	var wg sync.WaitGroup
	for _, status := range []domain.Status{domain.StatusProcessing, domain.StatusShipped} {
		wg.Add(1)
		go func(s domain.Status) {
			defer wg.Done()
			_, err := repo.Update(ctx, "ORD-1", func(o *domain.Order) error {
				return o.UpdateStatus(s, time.Now())
			})
			assert.NoError(t, err)
		}(status)
	}
	wg.Wait()

	_, err = repo.Update(ctx, "ORD-1", func(o *domain.Order) error {
		o.TrackingNumber = "1Z999"
		return o.UpdateStatus(domain.StatusDelivered, time.Now())
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, stored.Status)
	assert.Equal(t, "1Z999", stored.TrackingNumber)
	assert.NotNil(t, stored.ShippingDate)
	assert.NotNil(t, stored.DeliveryDate)
	assert.Equal(t, "72.47", stored.TotalAmount.StringFixed(2))
}

func TestIdempotencyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	store := orderspg.NewIdempotencyStore(pgtest.Start(t))

	missing, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Nil(t, missing)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "ORD-1"})
	require.NoError(t, err)
	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", again.OrderID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", OrderID: "ORD-1"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}
