package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const (
	maxIDAttempts = 5
	maxListViews  = 256
)

// Option customizes the order service.
type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for best-effort follow-up failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets the destination for order events.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithIDGenerator replaces the order id source.
func WithIDGenerator(next func() (string, error)) Option {
	return func(s *Service) {
		if next != nil {
			s.nextID = next
		}
	}
}

// Service implements the order store use cases and the commit step of checkout.
type Service struct {
	repo      ports.Repository
	carts     ports.CartSource
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	nextID    func() (string, error)

	viewsMu   sync.Mutex
	views     map[string]*domain.ListView
	viewOrder []string
}

// NewService wires the order service with its store and the cart it checks out from.
func NewService(repo ports.Repository, carts ports.CartSource, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		carts:     carts,
		publisher: discardPublisher{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		nextID:    domain.NewOrderID,
		views:     map[string]*domain.ListView{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the customer, snapshots the session cart, stores the order and deducts the
// ordered lines from the cart.
// A preassigned OrderID that is already stored returns the stored order, so retried commits are safe.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, mapError(ErrMissingSession)
	}
	if err := domain.ValidateCustomer(input.Customer); err != nil {
		return nil, mapError(err)
	}
	if input.OrderID != "" {
		existing, err := s.repo.GetByID(ctx, input.OrderID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
	}

	items, err := s.carts.Snapshot(ctx, input.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	placed, err := s.insert(ctx, input, items)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.carts.Deduct(ctx, input.SessionID, items); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cart deduct after checkout failed",
			slog.String("orderId", placed.ID), slog.String("error", err.Error()))
	}
	s.publish(ctx, domain.NewOrderPlaced(placed))
	return placed, nil
}

func (s *Service) insert(ctx context.Context, input ordertypes.PlaceOrderInput, items []domain.LineItem) (*domain.Order, error) {
	placedAt := s.now()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := input.OrderID
		if id == "" {
			generated, err := s.nextID()
			if err != nil {
				return nil, err
			}
			id = generated
		}
		order, err := domain.NewOrder(id, input.Customer, items, placedAt)
		if err != nil {
			return nil, err
		}
		stored, err := s.repo.Add(ctx, order)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, ports.ErrConflict) {
			return nil, err
		}
		if input.OrderID != "" {
			return s.repo.GetByID(ctx, input.OrderID)
		}
	}
	return nil, fmt.Errorf("allocate order id after %d attempts: %w", maxIDAttempts, ports.ErrConflict)
}

// GetOrderByID returns a stored order.
func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateOrderStatus moves an order to a new status. Unknown ids leave the store untouched.
func (s *Service) UpdateOrderStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*domain.Order, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	var previous domain.Status
	at := s.now()
	updated, err := s.repo.Update(ctx, input.ID, func(o *domain.Order) error {
		previous = o.Status
		if err := o.UpdateStatus(status, at); err != nil {
			return err
		}
		if input.TrackingNumber != nil {
			o.TrackingNumber = strings.TrimSpace(*input.TrackingNumber)
		}
		if input.Notes != nil {
			o.Notes = *input.Notes
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{Timestamp: at.UTC()},
		OrderID:    updated.ID,
		FromStatus: previous,
		ToStatus:   updated.Status,
	})
	return updated, nil
}

// ListOrders filters, sorts and pages the order list. With a ViewID the page state survives between
// calls and a changed filter returns to page 1.
func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) (*domain.Page, error) {
	filter := input.Filter
	if filter.Status == "" {
		filter.Status = domain.StatusAll
	} else if filter.Status != domain.StatusAll {
		status, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Status = string(status)
	}
	sortBy, err := domain.ParseSortOrder(string(filter.SortBy))
	if err != nil {
		return nil, mapError(err)
	}
	filter.SortBy = sortBy
	if err := filter.Validate(); err != nil {
		return nil, mapError(err)
	}

	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if input.ViewID == "" {
		page := domain.Query(orders, filter, input.Page, input.PageSize)
		return &page, nil
	}
	s.viewsMu.Lock()
	defer s.viewsMu.Unlock()
	view := s.view(input.ViewID, input.PageSize)
	view.Apply(filter, input.Page)
	page := view.Render(orders)
	return &page, nil
}

// view returns the list state for a viewer, evicting the oldest when the registry is full.
// Callers hold viewsMu.
func (s *Service) view(id string, pageSize int) *domain.ListView {
	if v, ok := s.views[id]; ok {
		return v
	}
	if len(s.viewOrder) >= maxListViews {
		oldest := s.viewOrder[0]
		s.viewOrder = s.viewOrder[1:]
		delete(s.views, oldest)
	}
	v := domain.NewListView(pageSize)
	s.views[id] = v
	s.viewOrder = append(s.viewOrder, id)
	return v
}

// Dashboard summarizes the stored orders.
func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	d := domain.Summarize(orders, domain.RecentOrdersShown)
	return &d, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order event publish failed",
			slog.String("event", event.EventName()),
			slog.String("orderId", event.AggregateID()),
			slog.String("error", err.Error()))
	}
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, domain.Event) error { return nil }

var _ ports.Service = (*Service)(nil)
