package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestNewValidatesConfig(t *testing.T) {
	h := HandlerFunc(func(context.Context, *Message) error { return nil })

	_, err := New(Config{GroupID: "g", Topics: []string{"t"}}, h, nil)
	require.Error(t, err)

	_, err = New(Config{Brokers: []string{"localhost:9092"}, Topics: []string{"t"}}, h, nil)
	require.Error(t, err)

	_, err = New(Config{Brokers: []string{"localhost:9092"}, GroupID: "g"}, h, nil)
	require.Error(t, err)
}

func TestToMessage(t *testing.T) {
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	msg := toMessage(&kgo.Record{
		Topic:     "scad.ledger.events",
		Partition: 2,
		Offset:    41,
		Key:       []byte("0xabc"),
		Value:     []byte(`{"owner":"0xabc"}`),
		Headers:   []kgo.RecordHeader{{Key: "event_type", Value: []byte("consent_changed")}},
		Timestamp: ts,
	})

	assert.Equal(t, int32(2), msg.Partition)
	assert.Equal(t, int64(41), msg.Offset)
	assert.Equal(t, "consent_changed", msg.Headers["event_type"])
	assert.Equal(t, ts, msg.Timestamp)
}
