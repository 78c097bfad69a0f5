package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// DefaultExchange receives every order event, routed by event name.
const DefaultExchange = "storefront.order.events"

var _ ports.EventPublisher = (*RabbitPublisher)(nil)

// RabbitPublisher publishes order events to a topic exchange with publisher confirms.
type RabbitPublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher declares the exchange and, when queue is set, a durable queue bound to all order events.
func NewRabbitPublisher(ch *amqp.Channel, exchange, queue string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if queue != "" {
		q, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("declare queue: %w", err)
		}
		if err := ch.QueueBind(q.Name, "orders.#", exchange, false, nil); err != nil {
			return nil, fmt.Errorf("queue bind: %w", err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

// Publish sends the event and waits for the broker to confirm it.
func (p *RabbitPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.AggregateID() + ":" + event.EventName(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventName(),
		Body:         body,
	}
	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, event.EventName(), false, false, pub)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("publish %s: broker nacked", event.EventName())
	}
	return nil
}
