package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// CheckoutService decorates the checkout port with tracing, logging, and metrics.
type CheckoutService struct {
	inner   ports.CheckoutService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

// NewCheckout wires a decorator around the checkout coordinator.
func NewCheckout(inner ports.CheckoutService, opts ...Option) ports.CheckoutService {
	s := resolve(opts)
	return &CheckoutService{inner: inner, tracer: s.tracer, logger: s.logger, metrics: s.metrics}
}

// Checkout places an order from the session cart.
func (s *CheckoutService) Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "Orders.Checkout", trace.WithAttributes(
		attribute.Bool("checkout.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		s.metrics.recordCheckout(ctx, checkoutOutcome(err))
		return nil, handleError(ctx, s.logger, span, err, "checkout failed", slog.String("session.id", input.SessionID))
	}
	outcome := "placed"
	if result.Replayed {
		outcome = "replayed"
	}
	s.metrics.recordCheckout(ctx, outcome)
	annotate(span, result.Order)
	span.SetAttributes(attribute.Bool("checkout.replayed", result.Replayed))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "checkout completed",
		slog.String("session.id", input.SessionID),
		slog.String("order.id", result.Order.ID),
		slog.Bool("replayed", result.Replayed),
	)
	return result, nil
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ports.ErrCheckoutInProgress):
		return "in_progress"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "conflict"
	}
	return "error"
}

var _ ports.CheckoutService = (*CheckoutService)(nil)
