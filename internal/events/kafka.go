package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) PublishOrderConfirmed(ctx context.Context, evt OrderConfirmed) error {
	if evt.Event == "" {
		evt.Event = EventOrderConfirmed
	}
	if evt.ConfirmedAt.IsZero() {
		evt.ConfirmedAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Event, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.OrderID, 10)),
		Value: value,
		Time:  evt.ConfirmedAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
