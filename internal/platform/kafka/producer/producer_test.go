package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresBrokers(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)
}

func TestToRecordCopiesHeaders(t *testing.T) {
	rec := toRecord(&Message{
		Topic:   "scad.ledger.events",
		Key:     []byte("0xabc"),
		Value:   []byte(`{}`),
		Headers: map[string]string{"event_type": "registered", "sequence": "7"},
	})

	assert.Equal(t, "scad.ledger.events", rec.Topic)
	assert.Equal(t, []byte("0xabc"), rec.Key)

	got := map[string]string{}
	for _, h := range rec.Headers {
		got[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{"event_type": "registered", "sequence": "7"}, got)
}
