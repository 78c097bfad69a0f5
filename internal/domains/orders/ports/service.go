package ports

import (
	"context"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*domain.Order, error)
	ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) (*domain.Page, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// CheckoutService is the shopper-facing checkout entry point.
type CheckoutService interface {
	Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.CheckoutResult, error)
}
