package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// GetProduct loads a single product with instrumentation.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	product, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return product, nil
}

// ListProducts runs a catalog query with instrumentation.
func (s *Service) ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) (*catalogtypes.ProductList, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.ListProducts", trace.WithAttributes(
		attribute.String("catalog.category", input.Category),
		attribute.String("catalog.sort", input.SortBy),
		attribute.Bool("catalog.best_sellers_only", input.BestSellersOnly),
	))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to query catalog", slog.String("search", input.Search))
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result.Products)))
	s.metrics.recordQuery(ctx, input.Category)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "catalog queried",
		slog.String("search", input.Search),
		slog.Int("count", len(result.Products)),
	)
	return result, nil
}

// FeaturedProducts returns the landing page best sellers.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Catalog.FeaturedProducts", trace.WithAttributes(attribute.Int("catalog.limit", limit)))
	defer span.End()

	result, err := s.inner.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load featured products")
	}
	return result, nil
}

// Categories lists the category filter options.
func (s *Service) Categories(ctx context.Context) []domain.Category {
	return s.inner.Categories(ctx)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

type serviceMetrics struct {
	queries metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	queries, _ := m.Int64Counter("catalog.service.queries", metric.WithDescription("Number of catalog queries served"))
	return serviceMetrics{queries: queries}
}

func (m serviceMetrics) recordQuery(ctx context.Context, category string) {
	if m.queries == nil {
		return
	}
	if category == "" {
		category = string(domain.CategoryAll)
	}
	m.queries.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.category", category)))
}

var _ ports.Service = (*Service)(nil)
