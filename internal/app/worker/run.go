// Package worker hosts the durable checkout workflow on a Temporal task queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	temporalworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-api/internal/app/bootstrap"
	"github.com/Apurer/storefront-api/internal/app/config"
	orderactivities "github.com/Apurer/storefront-api/internal/durable/temporal/activities/orders"
	checkoutworkflows "github.com/Apurer/storefront-api/internal/durable/temporal/workflows/checkout"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/storefront-api/internal/platform/temporal"
)

// Run registers the checkout workflow and its activity and polls until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Config{
		ServiceName:  cfg.App.Name + "-worker",
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
	if !sf.Shared {
		logger.Warn("worker is using in-memory carts or orders; checkouts started by the API will not find their carts")
	}

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:    cfg.Temporal.Address,
		Namespace:  cfg.Temporal.Namespace,
		Disabled:   cfg.Temporal.Disabled,
		TracerName: "temporal-worker",
	}, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := orderactivities.NewActivities(sf.Orders)
	w := temporalworker.New(temporalClient, checkoutworkflows.CheckoutTaskQueue, temporalworker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	if err := w.Start(); err != nil {
		return fmt.Errorf("start Temporal worker: %w", err)
	}
	logger.Info("worker listening",
		slog.String("taskQueue", checkoutworkflows.CheckoutTaskQueue),
		slog.String("namespace", cfg.Temporal.Namespace),
	)
	<-ctx.Done()
	w.Stop()
	logger.Info("Temporal worker stopped")
	return nil
}
