package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	types "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
	"github.com/Apurer/storefront-api/internal/shared/projection"
)

// Service orchestrates the cart use cases. Mutations on the same session are serialized.
type Service struct {
	repo     ports.Repository
	products ports.ProductLookup
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService wires the cart service with its store and the catalog lookup.
func NewService(repo ports.Repository, products ports.ProductLookup) *Service {
	return &Service{
		repo:     repo,
		products: products,
		now:      time.Now,
		locks:    map[string]*sessionLock{},
	}
}

// GetCart returns the session cart. A session without a cart sees an empty one.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*types.CartProjection, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, mapError(ErrMissingSession)
	}
	current, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	return current, nil
}

// AddItem resolves the product from the catalog and adds it to the cart. Out-of-stock products are refused.
func (s *Service) AddItem(ctx context.Context, input types.AddItemInput) (*types.CartProjection, error) {
	if input.Quantity < 1 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	return s.mutate(ctx, input.SessionID, func(ctx context.Context, cart *domain.Cart) error {
		product, err := s.products.GetProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.InStock {
			return domain.ErrOutOfStock
		}
		return cart.Add(product, input.Quantity)
	})
}

// UpdateQuantity sets a line's quantity, removing it at zero or below.
func (s *Service) UpdateQuantity(ctx context.Context, input types.UpdateQuantityInput) (*types.CartProjection, error) {
	return s.mutate(ctx, input.SessionID, func(_ context.Context, cart *domain.Cart) error {
		cart.UpdateQuantity(input.ProductID, input.Quantity)
		return nil
	})
}

// RemoveItem deletes a line if present.
func (s *Service) RemoveItem(ctx context.Context, input types.ItemIdentifier) (*types.CartProjection, error) {
	return s.mutate(ctx, input.SessionID, func(_ context.Context, cart *domain.Cart) error {
		cart.Remove(input.ProductID)
		return nil
	})
}

// DeductItems removes the given units in one locked step. Lines added or raised since they were
// read stay in the cart.
func (s *Service) DeductItems(ctx context.Context, input types.DeductItemsInput) (*types.CartProjection, error) {
	return s.mutate(ctx, input.SessionID, func(_ context.Context, cart *domain.Cart) error {
		for productID, quantity := range input.Quantities {
			cart.Deduct(productID, quantity)
		}
		return nil
	})
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return mapError(ErrMissingSession)
	}
	unlock := s.lock(sessionID)
	defer unlock()
	if err := s.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return mapError(err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, apply func(context.Context, *domain.Cart) error) (*types.CartProjection, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, mapError(ErrMissingSession)
	}
	unlock := s.lock(sessionID)
	defer unlock()

	current, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := apply(ctx, current.Entity); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, sessionID, current.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*types.CartProjection, error) {
	current, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return projection.Of(domain.New(), projection.Fresh(s.now())), nil
	}
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

var _ ports.Service = (*Service)(nil)
