// Command catalog-seed loads the bundled catalog, and optionally the sample orders, into Postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/Apurer/storefront-api/internal/app/config"
	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogseed "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/seed"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersseed "github.com/Apurer/storefront-api/internal/domains/orders/adapters/seed"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "catalog-seed:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flags := pflag.NewFlagSet("catalog-seed", pflag.ContinueOnError)
	dsn := flags.String("dsn", cfg.Postgres.DSN, "PostgreSQL DSN (defaults to postgres.dsn from configuration)")
	withOrders := flags.Bool("orders", false, "also load the sample orders")
	timeout := flags.Duration("timeout", 30*time.Second, "overall time limit")
	logLevel := flags.String("log-level", cfg.App.LogLevel, "log level")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: platformobservability.ParseLevel(*logLevel)}))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := platformpostgres.Connect(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	products, err := catalogseed.Products()
	if err != nil {
		return err
	}
	n, err := catalogpostgres.NewRepository(db).Seed(ctx, products)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded", slog.Int("products", n))

	if !*withOrders {
		return nil
	}
	orders, err := ordersseed.Orders(products)
	if err != nil {
		return err
	}
	n, err = orderspostgres.NewRepository(db).Seed(ctx, orders)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	logger.Info("sample orders seeded", slog.Int("orders", n))
	return nil
}
