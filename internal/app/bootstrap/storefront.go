// Package bootstrap assembles the storefront services from configuration for every process.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/app/config"
	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/storefront-api/internal/domains/cart/adapters/observability"
	cartredis "github.com/Apurer/storefront-api/internal/domains/cart/adapters/redis"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogseed "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/seed"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/cartsource"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/events"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersredis "github.com/Apurer/storefront-api/internal/domains/orders/adapters/redis"
	ordersseed "github.com/Apurer/storefront-api/internal/domains/orders/adapters/seed"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/durable/temporal/sequences"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
	platformrabbitmq "github.com/Apurer/storefront-api/internal/platform/rabbitmq"
	platformredis "github.com/Apurer/storefront-api/internal/platform/redis"
)

// guardSlack covers starting the workflow and returning its result around the placement activity.
const guardSlack = 30 * time.Second

// Storefront holds the decorated services and the stores behind them.
type Storefront struct {
	Catalog     catalogports.Service
	FAQs        []catalogseed.FAQ
	Cart        cartports.Service
	Orders      ordersports.Service
	CartSource  ordersports.CartSource
	OrderRepo   ordersports.Repository
	Guard       ordersports.CheckoutGuard
	Idempotency ordersports.IdempotencyStore
	Publisher   ordersports.EventPublisher

	// Shared reports whether carts and orders live in stores other processes can reach.
	Shared bool

	closers []func() error
}

// Close releases every connection opened by Build, most recent first.
func (s *Storefront) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Build wires the services. Optional backends that are not configured, or cannot be reached, fall
// back to in-memory adapters and are logged.
func Build(ctx context.Context, cfg config.Config, instruments *platformobservability.Instruments) (*Storefront, error) {
	logger := instruments.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sf := &Storefront{}

	products, err := catalogseed.Products()
	if err != nil {
		return nil, fmt.Errorf("load bundled catalog: %w", err)
	}
	if sf.FAQs, err = catalogseed.FAQs(); err != nil {
		return nil, fmt.Errorf("load bundled faqs: %w", err)
	}

	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.Postgres.DSN, logger)
	if db != nil {
		sf.closers = append(sf.closers, func() error { closeDB(); return nil })
		if err := migrations.Run(db); err != nil {
			_ = sf.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	rdb := connectRedis(ctx, cfg, logger)
	if rdb != nil {
		sf.closers = append(sf.closers, rdb.Close)
	}
	sf.Shared = db != nil && rdb != nil

	catalogRepo, err := buildCatalogRepository(ctx, db, products, logger)
	if err != nil {
		_ = sf.Close()
		return nil, err
	}
	sf.Catalog = catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	var cartRepo cartports.Repository = cartmemory.NewRepository()
	if rdb != nil {
		cartRepo = cartredis.NewRepository(rdb, sf.Catalog, cfg.Redis.CartTTL)
		logger.Info("cart repository configured with redis")
	}
	sf.Cart = cartobs.New(
		cartapp.NewService(cartRepo, sf.Catalog),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	sf.CartSource = cartsource.New(sf.Cart)

	if sf.OrderRepo, sf.Idempotency, err = buildOrderStores(ctx, db, products, logger); err != nil {
		_ = sf.Close()
		return nil, err
	}
	sf.Guard = ordersmemory.NewCheckoutGuard()
	if rdb != nil {
		ttl := CheckoutGuardTTL(cfg, sf.Shared)
		sf.Guard = ordersredis.NewCheckoutGuard(rdb, ttl)
		logger.Info("checkout guard configured with redis", slog.Duration("ttl", ttl))
	}

	sf.Publisher = sf.buildPublisher(cfg, logger)
	sf.Orders = ordersobs.New(
		ordersapp.NewService(sf.OrderRepo, sf.CartSource,
			ordersapp.WithLogger(logger),
			ordersapp.WithPublisher(sf.Publisher),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return sf, nil
}

// CheckoutGuardTTL returns the configured guard lifetime, raised so that a durable checkout cannot
// outlive its guard: processing delay plus the placement activity's full retry budget.
func CheckoutGuardTTL(cfg config.Config, durable bool) time.Duration {
	ttl := cfg.Redis.GuardTTL
	if !durable || cfg.Temporal.Disabled {
		return ttl
	}
	if floor := cfg.Checkout.ProcessingDelay + sequences.PlacementBudget() + guardSlack; ttl < floor {
		return floor
	}
	return ttl
}

func connectRedis(ctx context.Context, cfg config.Config, logger *slog.Logger) *goredis.Client {
	if cfg.Redis.Addr == "" {
		logger.Warn("redis address not set, carts and checkout guards stay in memory")
		return nil
	}
	rdb, err := platformredis.Connect(ctx, platformredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("failed to connect to redis, carts and checkout guards stay in memory", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("redis connection established", slog.String("addr", cfg.Redis.Addr))
	return rdb
}

func buildCatalogRepository(ctx context.Context, db *gorm.DB, products []*catalogdomain.Product, logger *slog.Logger) (catalogports.Repository, error) {
	if db != nil {
		repo := catalogpostgres.NewRepository(db)
		stored, err := repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list catalog: %w", err)
		}
		if len(stored) > 0 {
			logger.Info("catalog repository configured with postgres", slog.Int("products", len(stored)))
			return repo, nil
		}
		logger.Warn("postgres catalog is empty, serving the bundled catalog; run catalog-seed to load it")
	}
	return catalogmemory.NewRepository(products)
}

func buildOrderStores(ctx context.Context, db *gorm.DB, products []*catalogdomain.Product, logger *slog.Logger) (ordersports.Repository, ordersports.IdempotencyStore, error) {
	if db != nil {
		logger.Info("order repository configured with postgres")
		return orderspostgres.NewRepository(db), orderspostgres.NewIdempotencyStore(db), nil
	}
	sample, err := ordersseed.Orders(products)
	if err != nil {
		return nil, nil, fmt.Errorf("load sample orders: %w", err)
	}
	repo, err := ordersmemory.NewRepository(sample...)
	if err != nil {
		return nil, nil, err
	}
	return repo, ordersmemory.NewIdempotencyStore(), nil
}

func (sf *Storefront) buildPublisher(cfg config.Config, logger *slog.Logger) ordersports.EventPublisher {
	var publishers []ordersports.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		session, err := platformrabbitmq.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, order events will not reach it", slog.String("error", err.Error()))
		} else if publisher, err := events.NewRabbitPublisher(session.Channel, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
			logger.Warn("rabbitmq topology setup failed", slog.String("error", err.Error()))
			_ = session.Close()
		} else {
			sf.closers = append(sf.closers, session.Close)
			publishers = append(publishers, publisher)
			logger.Info("order events published to rabbitmq", slog.String("exchange", cfg.RabbitMQ.Exchange))
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Warn("kafka unavailable, order events will not reach it", slog.String("error", err.Error()))
		} else {
			sf.closers = append(sf.closers, publisher.Close)
			publishers = append(publishers, publisher)
			logger.Info("order events published to kafka", slog.String("topic", cfg.Kafka.Topic))
		}
	}
	if len(publishers) == 0 {
		return events.Noop{}
	}
	return events.NewFanout(publishers...)
}
