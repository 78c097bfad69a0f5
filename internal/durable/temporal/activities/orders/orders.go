package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName commits a session cart as an order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Application error types carried across the workflow boundary. None of them are retried.
const (
	ErrTypeValidation   = "ValidationError"
	ErrTypeInvalidInput = "InvalidInput"
	ErrTypeEmptyCart    = "EmptyCart"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder stores the order for the preassigned id and deducts its lines from the cart. Retries return the stored order.
func (a *Activities) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "orderId", input.OrderID, "sessionId", input.SessionID)
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

func toApplicationError(err error) error {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidation, err, validation.Fields)
	case errors.Is(err, domain.ErrEmptyCart):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeEmptyCart, err)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	}
	return err
}
