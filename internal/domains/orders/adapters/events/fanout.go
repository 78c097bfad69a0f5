package events

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var (
	_ ports.EventPublisher = (*Fanout)(nil)
	_ ports.EventPublisher = Noop{}
)

// Fanout delivers every event to each publisher and joins their errors.
type Fanout struct {
	publishers []ports.EventPublisher
}

// NewFanout skips nil publishers.
func NewFanout(publishers ...ports.EventPublisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish sends the event to every publisher even when one fails.
func (f *Fanout) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many publishers are attached.
func (f *Fanout) Len() int {
	return len(f.publishers)
}

// Noop drops events.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, domain.Event) error { return nil }
