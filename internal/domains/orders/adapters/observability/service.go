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

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*settings)

type settings struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.metrics = newServiceMetrics(m)
	}
}

func resolve(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
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

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := resolve(opts)
	return &Service{inner: inner, tracer: s.tracer, logger: s.logger, metrics: s.metrics}
}

// PlaceOrder commits a session cart as an order.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.PlaceOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to place order", slog.String("session.id", input.SessionID))
	}
	annotate(span, order)
	s.metrics.recordPlaced(ctx, order)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order placed",
		slog.String("order.id", order.ID),
		slog.Int("order.items", order.ItemCount()),
		slog.String("order.total", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}

// GetOrderByID loads an order.
func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.GetOrderByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to load order", slog.String("order.id", id))
	}
	annotate(span, order)
	return order, nil
}

// UpdateOrderStatus moves an order to a new status.
func (s *Service) UpdateOrderStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", input.ID),
		attribute.String("order.status.requested", input.Status),
	))
	defer span.End()

	order, err := s.inner.UpdateOrderStatus(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to update order status",
			slog.String("order.id", input.ID),
			slog.String("order.status", input.Status),
		)
	}
	annotate(span, order)
	s.metrics.recordStatusChange(ctx, order.Status)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order status updated",
		slog.String("order.id", order.ID),
		slog.String("order.status", string(order.Status)),
	)
	return order, nil
}

// ListOrders queries the order list.
func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) (*domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.ListOrders", trace.WithAttributes(
		attribute.String("orders.filter.status", input.Filter.Status),
		attribute.String("orders.filter.sort", string(input.Filter.SortBy)),
		attribute.Int("orders.page.requested", input.Page),
	))
	defer span.End()

	page, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to list orders")
	}
	span.SetAttributes(
		attribute.Int("orders.page", page.Page),
		attribute.Int("orders.total_count", page.TotalCount),
	)
	return page, nil
}

// Dashboard summarizes the order store.
func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.Dashboard")
	defer span.End()

	d, err := s.inner.Dashboard(ctx)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to build dashboard")
	}
	span.SetAttributes(attribute.Int("orders.total_count", d.TotalOrders))
	return d, nil
}

func annotate(span trace.Span, order *domain.Order) {
	if order == nil {
		return
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
		attribute.String("order.total", order.TotalAmount.StringFixed(2)),
	)
}

func handleError(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	placed        metric.Int64Counter
	revenue       metric.Float64Counter
	statusChanges metric.Int64Counter
	checkouts     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	revenue, _ := m.Float64Counter("orders.service.revenue", metric.WithDescription("Order totals placed"), metric.WithUnit("USD"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status updates by target status"))
	checkouts, _ := m.Int64Counter("orders.checkout.attempts", metric.WithDescription("Checkout attempts by outcome"))
	return serviceMetrics{placed: placed, revenue: revenue, statusChanges: statusChanges, checkouts: checkouts}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *domain.Order) {
	if m.placed != nil {
		m.placed.Add(ctx, 1)
	}
	if m.revenue != nil {
		total, _ := order.TotalAmount.Float64()
		m.revenue.Add(ctx, total)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status domain.Status) {
	if m.statusChanges == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
}

func (m serviceMetrics) recordCheckout(ctx context.Context, outcome string) {
	if m.checkouts == nil {
		return
	}
	m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("checkout.outcome", outcome)))
}

var _ ports.Service = (*Service)(nil)
