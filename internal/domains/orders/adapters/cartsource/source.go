package cartsource

import (
	"context"
	"errors"

	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.CartSource = (*Source)(nil)

// Source exposes the cart service to checkout.
type Source struct {
	carts cartports.Service
}

// New wraps the cart service.
func New(carts cartports.Service) *Source {
	return &Source{carts: carts}
}

// Snapshot copies the session cart lines into order line values.
func (s *Source) Snapshot(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	if s == nil || s.carts == nil {
		return nil, errors.New("cart source not configured")
	}
	current, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines := current.Entity.Snapshot()
	items := make([]domain.LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		items = append(items, domain.LineItem{Product: *line.Product, Quantity: line.Quantity})
	}
	return items, nil
}

// Deduct takes the ordered quantities out of the session cart.
func (s *Source) Deduct(ctx context.Context, sessionID string, items []domain.LineItem) error {
	if s == nil || s.carts == nil {
		return errors.New("cart source not configured")
	}
	quantities := make(map[string]int, len(items))
	for _, item := range items {
		quantities[item.Product.ID] += item.Quantity
	}
	_, err := s.carts.DeductItems(ctx, carttypes.DeductItemsInput{SessionID: sessionID, Quantities: quantities})
	return err
}
