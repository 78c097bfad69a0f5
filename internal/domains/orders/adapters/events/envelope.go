package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// Envelope is the wire format shared by every broker.
type Envelope struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

type orderPlacedPayload struct {
	OrderID     string `json:"orderId"`
	Email       string `json:"email"`
	ItemCount   int    `json:"itemCount"`
	Subtotal    string `json:"subtotal"`
	Shipping    string `json:"shipping"`
	TotalAmount string `json:"totalAmount"`
}

type statusChangedPayload struct {
	OrderID    string `json:"orderId"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

// Encode renders an event as a JSON envelope.
func Encode(event domain.Event) ([]byte, error) {
	var payload any
	switch e := event.(type) {
	case domain.OrderPlaced:
		payload = orderPlacedPayload{
			OrderID:     e.OrderID,
			Email:       e.Email,
			ItemCount:   e.ItemCount,
			Subtotal:    e.Subtotal.StringFixed(2),
			Shipping:    e.Shipping.StringFixed(2),
			TotalAmount: e.TotalAmount.StringFixed(2),
		}
	case domain.OrderStatusChanged:
		payload = statusChangedPayload{
			OrderID:    e.OrderID,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
		}
	default:
		return nil, fmt.Errorf("unsupported event %T", event)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		Type:        event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     raw,
	})
}
