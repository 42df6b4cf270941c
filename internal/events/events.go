package events

import (
	"context"
	"time"
)

const EventOrderConfirmed = "order.confirmed"

// OrderConfirmed is emitted once per order, when the first confirmation
// actually changes its payment state.
type OrderConfirmed struct {
	Event       string    `json:"event"`
	OrderID     int64     `json:"order_id"`
	Reference   string    `json:"reference"`
	Source      string    `json:"source"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, evt OrderConfirmed) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }
func (NopPublisher) Close() error                                                { return nil }

// NewPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
