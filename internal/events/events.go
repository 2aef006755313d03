// Package events publishes order lifecycle events to the configured
// message broker. Publishing happens after the database transaction
// commits and is best-effort: a broker outage is logged, never
// surfaced to the API caller.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/internal/mq"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/google/uuid"
)

const (
	ChannelOrderPlaced        = "order.placed"
	ChannelOrderStatusChanged = "order.status_changed"
)

// Envelope wraps every published event with identity and timing
// metadata so consumers can deduplicate and order them.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// OrderPlacedPayload describes a freshly placed order.
type OrderPlacedPayload struct {
	OrderID     int               `json:"order_id"`
	UserID      int               `json:"user_id"`
	TotalAmount string            `json:"total_amount"`
	Items       []types.OrderItem `json:"items"`
}

// OrderStatusChangedPayload describes a status update.
type OrderStatusChangedPayload struct {
	OrderID int               `json:"order_id"`
	Status  types.OrderStatus `json:"status"`
}

// Publisher emits order events onto an MQ backend.
type Publisher struct {
	queue *mq.MQ
}

func NewPublisher(queue *mq.MQ) *Publisher {
	return &Publisher{queue: queue}
}

// OrderPlaced publishes an order.placed event.
func (p *Publisher) OrderPlaced(ctx context.Context, order types.Order) {
	payload := OrderPlacedPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount.String(),
		Items:       order.Items,
	}
	p.publish(ctx, ChannelOrderPlaced, payload)
}

// OrderStatusChanged publishes an order.status_changed event.
func (p *Publisher) OrderStatusChanged(ctx context.Context, orderID int, status types.OrderStatus) {
	payload := OrderStatusChangedPayload{OrderID: orderID, Status: status}
	p.publish(ctx, ChannelOrderStatusChanged, payload)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal %s payload: %v", channel, err)
		return
	}

	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  channel,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("events: marshal %s envelope: %v", channel, err)
		return
	}

	attrs := map[string]string{"event-type": channel}
	if _, err := p.queue.Publish(ctx, channel, body, attrs); err != nil {
		log.Printf("events: publish %s: %v", channel, err)
	}
}
