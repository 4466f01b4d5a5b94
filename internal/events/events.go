// Package events defines the two ledger events and their outbox encoding.
// Every committed mutation appends exactly one entry, inside the mutation's
// transaction, and the entry's sequence is its position in the global log.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scad/internal/identifier"
	"scad/pkg/domain"
	"scad/pkg/platform/outbox"
)

const (
	AggregateRegistration = "registration"
	AggregateConsent      = "consent"

	TypeRegistered     = "Registered"
	TypeConsentChanged = "ConsentChanged"
)

// Registered is emitted once per owner when its record is created.
type Registered struct {
	Owner      domain.Address `json:"owner"`
	Identifier string         `json:"identifier"`
	IsCompany  bool           `json:"is_company"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ConsentChanged is emitted on every consent write, including writes that
// leave the stored value unchanged.
type ConsentChanged struct {
	Owner      domain.Address `json:"owner"`
	Reader     domain.Address `json:"reader"`
	Granted    bool           `json:"granted"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewRegisteredEntry encodes a Registered event as an outbox entry keyed by owner.
func NewRegisteredEntry(owner domain.Address, id identifier.Digits, isCompany bool, now time.Time) (*outbox.Entry, error) {
	return newEntry(AggregateRegistration, owner, TypeRegistered, Registered{
		Owner:      owner,
		Identifier: id.String(),
		IsCompany:  isCompany,
		OccurredAt: now,
	}, now)
}

// NewConsentChangedEntry encodes a ConsentChanged event as an outbox entry keyed by owner.
func NewConsentChangedEntry(owner, reader domain.Address, granted bool, now time.Time) (*outbox.Entry, error) {
	return newEntry(AggregateConsent, owner, TypeConsentChanged, ConsentChanged{
		Owner:      owner,
		Reader:     reader,
		Granted:    granted,
		OccurredAt: now,
	}, now)
}

func newEntry(aggregate string, owner domain.Address, eventType string, body any, now time.Time) (*outbox.Entry, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return outbox.NewEntry(aggregate, owner.String(), eventType, payload, now), nil
}

// Event is a decoded outbox entry. Exactly one of Registered or ConsentChanged is set.
type Event struct {
	ID             uuid.UUID
	Sequence       int64
	Type           string
	Owner          domain.Address
	Registered     *Registered
	ConsentChanged *ConsentChanged
}

// Decode turns an outbox entry back into a typed event.
func Decode(e *outbox.Entry) (Event, error) {
	ev := Event{
		ID:       e.ID,
		Sequence: e.Sequence,
		Type:     e.EventType,
		Owner:    domain.Address(e.AggregateID),
	}
	switch e.EventType {
	case TypeRegistered:
		var body Registered
		if err := json.Unmarshal(e.Payload, &body); err != nil {
			return Event{}, fmt.Errorf("decode %s event %s: %w", e.EventType, e.ID, err)
		}
		ev.Registered = &body
	case TypeConsentChanged:
		var body ConsentChanged
		if err := json.Unmarshal(e.Payload, &body); err != nil {
			return Event{}, fmt.Errorf("decode %s event %s: %w", e.EventType, e.ID, err)
		}
		ev.ConsentChanged = &body
	default:
		return Event{}, fmt.Errorf("unknown event type %q", e.EventType)
	}
	return ev, nil
}

// MaskedFor returns a copy of ev safe to show to viewer. Identifiers in
// Registered events are masked unless viewer is the owner.
func (ev Event) MaskedFor(viewer domain.Address) Event {
	if ev.Registered == nil || viewer == ev.Owner {
		return ev
	}
	r := *ev.Registered
	r.Identifier = identifier.Digits(r.Identifier).Masked()
	ev.Registered = &r
	return ev
}
