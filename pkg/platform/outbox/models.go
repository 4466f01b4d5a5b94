package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one committed ledger event awaiting (or past) publication.
// Sequence is assigned by the store at append time and is strictly increasing
// in commit order; it is zero until the entry has been appended.
type Entry struct {
	ID            uuid.UUID
	Sequence      int64
	AggregateType string // "registration" or "consent"
	AggregateID   string // owner address
	EventType     string // "Registered" or "ConsentChanged"
	Payload       []byte // JSON-encoded event body
	CreatedAt     time.Time
	ProcessedAt   *time.Time // nil until published to Kafka
}

// IsPending returns true if this entry has not been published yet.
func (e *Entry) IsPending() bool {
	return e.ProcessedAt == nil
}

// NewEntry creates a new outbox entry with a generated UUID.
func NewEntry(aggregateType, aggregateID, eventType string, payload []byte, now time.Time) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}
