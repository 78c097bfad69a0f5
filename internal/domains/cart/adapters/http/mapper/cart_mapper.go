package mapper

import (
	"github.com/shopspring/decimal"

	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogmapper "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/storefront-api/internal/shared/pricing"
)

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest is the payload for setting a line's quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// LineItem is the HTTP representation of a cart line.
type LineItem struct {
	Product   catalogmapper.Product `json:"product"`
	Quantity  int                   `json:"quantity"`
	LineTotal string                `json:"lineTotal"`
}

// Cart is the HTTP representation of a session cart with its derived totals.
type Cart struct {
	Items                 []LineItem `json:"items"`
	TotalItems            int        `json:"totalItems"`
	Subtotal              string     `json:"subtotal"`
	Shipping              string     `json:"shipping"`
	Total                 string     `json:"total"`
	FreeShippingThreshold string     `json:"freeShippingThreshold"`
	AmountToFreeShipping  string     `json:"amountToFreeShipping"`
}

// QuantityOrDefault returns the requested quantity, defaulting to one.
func (r AddItemRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// FromProjection maps a cart projection for transport. An empty cart reports zero shipping.
func FromProjection(p *carttypes.CartProjection) Cart {
	cart := domain.New()
	if p != nil && p.Entity != nil {
		cart = p.Entity
	}
	out := Cart{Items: []LineItem{}, FreeShippingThreshold: pricing.Display(pricing.FreeShippingThreshold)}
	for _, item := range cart.Items() {
		out.Items = append(out.Items, LineItem{
			Product:   catalogmapper.FromDomain(item.Product),
			Quantity:  item.Quantity,
			LineTotal: pricing.Display(item.LineTotal()),
		})
	}
	subtotal := cart.TotalPrice()
	shipping := decimal.Zero
	if !cart.IsEmpty() {
		shipping = cart.Shipping()
	}
	out.TotalItems = cart.TotalItems()
	out.Subtotal = pricing.Display(subtotal)
	out.Shipping = pricing.Display(shipping)
	out.Total = pricing.Display(subtotal.Add(shipping))
	out.AmountToFreeShipping = pricing.Display(cart.AmountToFreeShipping())
	return out
}
