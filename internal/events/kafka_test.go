package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderConfirmed(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderConfirmed(context.Background(), OrderConfirmed{
		OrderID:   42,
		Reference: "FUE_42_abcd1234",
		Source:    "webhook",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))

	var got OrderConfirmed
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, EventOrderConfirmed, got.Event)
	assert.Equal(t, int64(42), got.OrderID)
	assert.Equal(t, "FUE_42_abcd1234", got.Reference)
	assert.Equal(t, "webhook", got.Source)
	assert.False(t, got.ConfirmedAt.IsZero())
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.PublishOrderConfirmed(context.Background(), OrderConfirmed{OrderID: 1})
	assert.EqualError(t, err, "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	assert.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, NopPublisher{}, NewPublisher(nil, "order-events"))

	p := NewPublisher([]string{"localhost:9092"}, "order-events")
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
