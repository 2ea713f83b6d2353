package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	e := New("customer", Deleted, 7)

	require.Equal(t, "customer_deleted", e.Type)
	require.Equal(t, "customer", e.Entity)
	require.EqualValues(t, 7, e.EntityID)
	require.Equal(t, "customer:7", e.Key())
	require.False(t, e.OccurredAt.Before(before))

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	require.NotEqual(t, e.ID, New("customer", Deleted, 7).ID)
}

func TestEventWireShape(t *testing.T) {
	e := New("order", ProductAdded, 3)
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "order_product_added", m["type"])
	require.Equal(t, "order", m["entity"])
	require.EqualValues(t, 3, m["entity_id"])
	require.Contains(t, m, "event_id")
	require.Contains(t, m, "occurred_at")
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), New("product", Created, 1)))
}

func TestNewProducer(t *testing.T) {
	_, err := NewProducer(nil, "company_events")
	require.Error(t, err)
	_, err = NewProducer([]string{"kafka:9092"}, "")
	require.Error(t, err)

	p, err := NewProducer([]string{"kafka-1:9092", "kafka-2:9092"}, "company_events")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.Equal(t, "company_events", p.writer.Topic)
	require.IsType(t, &kafka.Hash{}, p.writer.Balancer)
	require.NotNil(t, p.writer.Addr)
}
