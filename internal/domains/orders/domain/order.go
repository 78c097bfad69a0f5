package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/shared/pricing"
)

// Status enumerates order progression. Any status may follow any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the order statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrInvalidQuantity = errors.New("line item quantity must be at least 1")
	ErrMissingProduct  = errors.New("line item product is required")
	ErrEmptyID         = errors.New("order id is required")
)

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Statuses() {
		if s == candidate {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// LineItem is an immutable purchase line. The product is a value snapshot taken at placement.
type LineItem struct {
	Product  catalogdomain.Product
	Quantity int
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is a placed purchase. Totals are frozen at placement.
type Order struct {
	ID             string
	Customer       Customer
	Items          []LineItem
	Subtotal       decimal.Decimal
	Shipping       decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         Status
	OrderDate      time.Time
	ShippingDate   *time.Time
	DeliveryDate   *time.Time
	TrackingNumber string
	Notes          string
}

// NewOrder builds a pending order from a cart snapshot, pricing it with the shipping rule.
func NewOrder(id string, customer Customer, items []LineItem, placedAt time.Time) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := ValidateCustomer(customer); err != nil {
		return nil, err
	}
	lines := make([]LineItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if item.Product.ID == "" {
			return nil, ErrMissingProduct
		}
		line := LineItem{Product: *item.Product.Clone(), Quantity: item.Quantity}
		lines = append(lines, line)
		subtotal = subtotal.Add(line.LineTotal())
	}
	shipping := pricing.ShippingFor(subtotal)
	return &Order{
		ID:          id,
		Customer:    customer.Normalized(),
		Items:       lines,
		Subtotal:    subtotal,
		Shipping:    shipping,
		TotalAmount: subtotal.Add(shipping),
		Status:      StatusPending,
		OrderDate:   placedAt.UTC(),
	}, nil
}

// UpdateStatus replaces the status. Entering shipped or delivered stamps the matching date once.
func (o *Order) UpdateStatus(status Status, at time.Time) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	o.Status = status
	stamp := at.UTC()
	switch status {
	case StatusShipped:
		if o.ShippingDate == nil {
			o.ShippingDate = &stamp
		}
	case StatusDelivered:
		if o.ShippingDate == nil {
			o.ShippingDate = &stamp
		}
		if o.DeliveryDate == nil {
			o.DeliveryDate = &stamp
		}
	}
	return nil
}

// ItemCount is the sum of line quantities.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		clone.Items = append(clone.Items, LineItem{Product: *item.Product.Clone(), Quantity: item.Quantity})
	}
	clone.ShippingDate = cloneTime(o.ShippingDate)
	clone.DeliveryDate = cloneTime(o.DeliveryDate)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NewOrderID returns "ORD-" followed by the hex form of a time-ordered UUIDv7.
func NewOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")), nil
}
