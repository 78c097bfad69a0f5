package ports

import (
	"context"

	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
)

// Service defines the cart use cases exposed to adapters (inbound/driving port).
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*carttypes.CartProjection, error)
	AddItem(ctx context.Context, input carttypes.AddItemInput) (*carttypes.CartProjection, error)
	UpdateQuantity(ctx context.Context, input carttypes.UpdateQuantityInput) (*carttypes.CartProjection, error)
	RemoveItem(ctx context.Context, input carttypes.ItemIdentifier) (*carttypes.CartProjection, error)
	DeductItems(ctx context.Context, input carttypes.DeductItemsInput) (*carttypes.CartProjection, error)
	Clear(ctx context.Context, sessionID string) error
}
