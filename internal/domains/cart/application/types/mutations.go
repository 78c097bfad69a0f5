package types

import (
	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/shared/projection"
)

// CartProjection transports a session cart together with its persistence metadata.
type CartProjection = projection.Projection[*domain.Cart]

// AddItemInput adds Quantity units of a product to the session cart.
type AddItemInput struct {
	SessionID string
	ProductID string
	Quantity  int
}

// UpdateQuantityInput sets a line's quantity; zero or less removes it.
type UpdateQuantityInput struct {
	SessionID string
	ProductID string
	Quantity  int
}

// DeductItemsInput takes checked-out units back out of the session cart, keyed by product id.
type DeductItemsInput struct {
	SessionID  string
	Quantities map[string]int
}

// ItemIdentifier addresses a single line in a session cart.
type ItemIdentifier struct {
	SessionID string
	ProductID string
}
