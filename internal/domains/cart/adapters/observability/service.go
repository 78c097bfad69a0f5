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

	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/cart/adapters/observability/service"

// Service decorates the cart port with tracing, logging, and metrics.
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

// GetCart loads the session cart.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Cart.GetCart")
	defer span.End()

	result, err := s.inner.GetCart(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("session.id", sessionID))
	}
	annotate(span, result)
	return result, nil
}

// AddItem adds a product to the session cart.
func (s *Service) AddItem(ctx context.Context, input carttypes.AddItemInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Cart.AddItem",
		attribute.String("product.id", input.ProductID),
		attribute.Int("cart.quantity", input.Quantity),
	)
	defer span.End()

	result, err := s.inner.AddItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add item to cart",
			slog.String("session.id", input.SessionID),
			slog.String("product.id", input.ProductID),
		)
	}
	annotate(span, result)
	s.metrics.recordMutation(ctx, "add")
	s.logInfo(ctx, "item added to cart",
		slog.String("session.id", input.SessionID),
		slog.String("product.id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)
	return result, nil
}

// UpdateQuantity sets a line's quantity.
func (s *Service) UpdateQuantity(ctx context.Context, input carttypes.UpdateQuantityInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Cart.UpdateQuantity",
		attribute.String("product.id", input.ProductID),
		attribute.Int("cart.quantity", input.Quantity),
	)
	defer span.End()

	result, err := s.inner.UpdateQuantity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update cart quantity", slog.String("session.id", input.SessionID))
	}
	annotate(span, result)
	s.metrics.recordMutation(ctx, "update")
	return result, nil
}

// RemoveItem deletes a line from the session cart.
func (s *Service) RemoveItem(ctx context.Context, input carttypes.ItemIdentifier) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Cart.RemoveItem", attribute.String("product.id", input.ProductID))
	defer span.End()

	result, err := s.inner.RemoveItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove cart item", slog.String("session.id", input.SessionID))
	}
	annotate(span, result)
	s.metrics.recordMutation(ctx, "remove")
	return result, nil
}

// DeductItems removes checked-out units from the session cart.
func (s *Service) DeductItems(ctx context.Context, input carttypes.DeductItemsInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Cart.DeductItems", attribute.Int("cart.lines", len(input.Quantities)))
	defer span.End()

	result, err := s.inner.DeductItems(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to deduct checked-out items", slog.String("session.id", input.SessionID))
	}
	annotate(span, result)
	s.metrics.recordMutation(ctx, "deduct")
	return result, nil
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.startSpan(ctx, "Cart.Clear")
	defer span.End()

	if err := s.inner.Clear(ctx, sessionID); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("session.id", sessionID))
	}
	s.metrics.recordMutation(ctx, "clear")
	s.logInfo(ctx, "cart cleared", slog.String("session.id", sessionID))
	return nil
}

func annotate(span trace.Span, result *carttypes.CartProjection) {
	if result == nil || result.Entity == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("cart.total_items", result.Entity.TotalItems()),
		attribute.String("cart.subtotal", result.Entity.TotalPrice().StringFixed(2)),
	)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of cart mutations by kind"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, kind string) {
	if m.mutations == nil {
		return
	}
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.mutation", kind)))
}

var _ ports.Service = (*Service)(nil)
