package outbox

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Kafka header names set on every published entry.
const (
	HeaderEventID       = "event_id"
	HeaderSequence      = "sequence"
	HeaderAggregateType = "aggregate_type"
	HeaderAggregateID   = "aggregate_id"
	HeaderEventType     = "event_type"
)

// Headers returns the transport headers describing e.
func Headers(e *Entry) map[string]string {
	return map[string]string{
		HeaderEventID:       e.ID.String(),
		HeaderSequence:      strconv.FormatInt(e.Sequence, 10),
		HeaderAggregateType: e.AggregateType,
		HeaderAggregateID:   e.AggregateID,
		HeaderEventType:     e.EventType,
	}
}

// EntryFromHeaders rebuilds a published entry from its headers and payload.
// CreatedAt is not carried on the wire and stays zero.
func EntryFromHeaders(headers map[string]string, payload []byte) (*Entry, error) {
	id, err := uuid.Parse(headers[HeaderEventID])
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", HeaderEventID, err)
	}
	seq, err := strconv.ParseInt(headers[HeaderSequence], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", HeaderSequence, err)
	}
	if seq <= 0 {
		return nil, fmt.Errorf("header %s: must be positive, got %d", HeaderSequence, seq)
	}
	for _, h := range []string{HeaderAggregateType, HeaderAggregateID, HeaderEventType} {
		if headers[h] == "" {
			return nil, fmt.Errorf("header %s missing", h)
		}
	}
	return &Entry{
		ID:            id,
		Sequence:      seq,
		AggregateType: headers[HeaderAggregateType],
		AggregateID:   headers[HeaderAggregateID],
		EventType:     headers[HeaderEventType],
		Payload:       payload,
	}, nil
}
