//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-api/test/pact"

	storefrontserver "github.com/Apurer/storefront-api/go"
	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/storefront-api/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	"github.com/Apurer/storefront-api/internal/domains/catalog/adapters/seed"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/cartsource"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: reset,
		pacttest.StateEmptyCart:       reset,
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
	}

	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the real router over fresh in-memory stores. Orders cannot be
// deleted, so a reset swaps in a whole new handler.
type contractProviderApp struct {
	mu      sync.RWMutex
	handler http.Handler
	orders  *ordersmemory.Repository
	catalog *catalogapp.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.current().ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) current() http.Handler {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.handler
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()

	products, err := seed.Products()
	require.NoError(t, err)
	catalogRepo, err := catalogmemory.NewRepository(products)
	require.NoError(t, err)
	catalogService := catalogapp.NewService(catalogRepo)
	faqs, err := seed.FAQs()
	require.NoError(t, err)

	cartService := cartapp.NewService(cartmemory.NewRepository(), catalogService)
	carts := cartsource.New(cartService)
	orderRepo, err := ordersmemory.NewRepository()
	require.NoError(t, err)
	orderService := ordersapp.NewService(orderRepo, carts)
	checkout := ordersapp.NewCheckoutCoordinator(carts, orderRepo,
		workflows.NewInlineCheckout(orderService),
		ordersmemory.NewCheckoutGuard(),
		ordersapp.WithProcessingDelay(0),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		CatalogAPI:  storefrontserver.NewCatalogAPI(catalogobs.New(catalogService), faqs),
		CartAPI:     storefrontserver.NewCartAPI(cartobs.New(cartService)),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(ordersobs.NewCheckout(checkout)),
		ProviderAPI: storefrontserver.NewProviderAPI(ordersobs.New(orderService)),
	})

	a.mu.Lock()
	a.handler = router
	a.orders = orderRepo
	a.catalog = catalogService
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB, id string) {
	t.Helper()
	ctx := context.Background()

	a.mu.RLock()
	orders, catalog := a.orders, a.catalog
	a.mu.RUnlock()

	product, err := catalog.GetProduct(ctx, pacttest.ExistingProductID)
	require.NoError(t, err)
	customer := ordersdomain.Customer{
		FirstName: "Pat",
		LastName:  "Contract",
		Email:     "pat.contract@example.com",
		Phone:     "555-010-2030",
		Address: ordersdomain.Address{
			Street:  "42 Pact Way",
			City:    "Portland",
			State:   "OR",
			ZipCode: "97201",
		},
	}
	order, err := ordersdomain.NewOrder(id, customer,
		[]ordersdomain.LineItem{{Product: *product, Quantity: 2}},
		time.Now().UTC(),
	)
	require.NoError(t, err)
	_, err = orders.Add(ctx, order)
	require.NoError(t, err)
}
