package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/shared/pricing"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNilProduct      = errors.New("product is required")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// LineItem pairs a catalog product with a positive quantity.
type LineItem struct {
	Product  *catalogdomain.Product
	Quantity int
}

// LineTotal is unit price times quantity, unrounded.
func (li LineItem) LineTotal() decimal.Decimal {
	if li.Product == nil {
		return decimal.Zero
	}
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is a session's ordered collection of line items. A product appears at most once.
// Totals are derived from the items on every read.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from stored lines, merging repeated products and dropping empty lines.
func Restore(items []LineItem) *Cart {
	c := New()
	for _, item := range items {
		if item.Product == nil || item.Quantity < 1 {
			continue
		}
		_ = c.Add(item.Product, item.Quantity)
	}
	return c
}

// Add appends a product or increases its quantity when already present.
func (c *Cart) Add(product *catalogdomain.Product, quantity int) error {
	if product == nil {
		return ErrNilProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return nil
	}
	c.items = append(c.items, LineItem{Product: product, Quantity: quantity})
	return nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line; unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = quantity
}

// Remove deletes a line if present.
func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Deduct lowers a line's quantity, dropping the line once nothing is left. Unknown products are ignored.
func (c *Cart) Deduct(productID string, quantity int) {
	i := c.indexOf(productID)
	if i < 0 || quantity < 1 {
		return
	}
	if c.items[i].Quantity <= quantity {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity -= quantity
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns the lines in insertion order. The slice is a copy; products are shared.
func (c *Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Snapshot returns the lines with cloned products, detached from the cart and the catalog.
func (c *Cart) Snapshot() []LineItem {
	out := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, LineItem{Product: item.Product.Clone(), Quantity: item.Quantity})
	}
	return out
}

// Quantity reports the quantity held for a product, zero when absent.
func (c *Cart) Quantity(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the exact subtotal of all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Shipping applies the shipping rule to the current subtotal.
func (c *Cart) Shipping() decimal.Decimal {
	return pricing.ShippingFor(c.TotalPrice())
}

// AmountToFreeShipping is how much more must be added before shipping is waived.
func (c *Cart) AmountToFreeShipping() decimal.Decimal {
	return pricing.AmountToFreeShipping(c.TotalPrice())
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i:i], c.items[i+1:]...)
}
