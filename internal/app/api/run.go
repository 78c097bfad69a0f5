package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/storefront-api/go"
	"github.com/Apurer/storefront-api/internal/app/bootstrap"
	"github.com/Apurer/storefront-api/internal/app/config"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/platform/httpmiddleware"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/storefront-api/internal/platform/temporal"
)

// Run boots the storefront HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Config{
		ServiceName:  cfg.App.Name,
		Environment:  cfg.App.Environment,
		LogLevel:     cfg.App.LogLevel,
		LogFile:      cfg.App.LogFile,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	sf, err := bootstrap.Build(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer func() {
		if err := sf.Close(); err != nil {
			logger.Warn("failed to close storefront backends", slog.String("error", err.Error()))
		}
	}()

	orchestrator, closeOrchestrator := buildOrchestrator(cfg, sf, instruments)
	defer closeOrchestrator()
	checkout := ordersobs.NewCheckout(
		ordersapp.NewCheckoutCoordinator(sf.CartSource, sf.OrderRepo, orchestrator, sf.Guard,
			ordersapp.WithProcessingDelay(cfg.Checkout.ProcessingDelay),
			ordersapp.WithIdempotencyStore(sf.Idempotency),
			ordersapp.WithCheckoutLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.checkout")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.checkout")),
	)

	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI:  storefrontserver.NewCatalogAPI(sf.Catalog, sf.FAQs),
		CartAPI:     storefrontserver.NewCartAPI(sf.Cart),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkout),
		ProviderAPI: storefrontserver.NewProviderAPI(sf.Orders),
	}
	metrics := httpmiddleware.NewMetrics("storefront")
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.App.Name),
		httpmiddleware.RequestLogging(logger),
		metrics.Middleware(),
	)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	router := storefrontserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", cfg.App.HTTPAddr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", cfg.App.HTTPAddr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	logger.Info("storefront API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildOrchestrator prefers the durable Temporal checkout. The worker commits orders in its own
// process, so Temporal is only used when carts and orders are in shared stores.
func buildOrchestrator(cfg config.Config, sf *bootstrap.Storefront, instruments *platformobservability.Instruments) (ordersports.CheckoutOrchestrator, func()) {
	logger := instruments.Logger
	inline := workflows.NewInlineCheckout(sf.Orders)
	if cfg.Temporal.Disabled {
		logger.Info("Temporal disabled, running inline checkout")
		return inline, func() {}
	}
	if !sf.Shared {
		logger.Warn("Temporal checkout needs postgres and redis, running inline checkout")
		return inline, func() {}
	}
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	}, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	return workflows.NewTemporalCheckout(temporalClient), temporalClient.Close
}
