package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/app/config"
	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/events"
	"github.com/Apurer/storefront-api/internal/durable/temporal/sequences"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

func TestBuild_InMemoryDefaults(t *testing.T) {
	ctx := context.Background()
	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	sf, err := Build(ctx, config.Defaults(), instruments)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, sf.Close()) })

	assert.False(t, sf.Shared)
	assert.IsType(t, events.Noop{}, sf.Publisher)
	assert.NotEmpty(t, sf.FAQs)

	dashboard, err := sf.Orders.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, dashboard.TotalOrders)

	cart, err := sf.Cart.AddItem(ctx, carttypes.AddItemInput{SessionID: "s", ProductID: "omega-3", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Entity.TotalItems())

	lines, err := sf.CartSource.Snapshot(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCheckoutGuardTTL(t *testing.T) {
	cfg := config.Defaults()
	cfg.Redis.GuardTTL = time.Minute
	cfg.Checkout.ProcessingDelay = 2 * time.Second

	assert.Equal(t, time.Minute, CheckoutGuardTTL(cfg, false))

	durable := CheckoutGuardTTL(cfg, true)
	assert.Greater(t, durable, 2*time.Second+sequences.PlacementBudget())

	cfg.Temporal.Disabled = true
	assert.Equal(t, time.Minute, CheckoutGuardTTL(cfg, true))

	cfg.Temporal.Disabled = false
	cfg.Redis.GuardTTL = time.Hour
	assert.Equal(t, time.Hour, CheckoutGuardTTL(cfg, true))
}
