package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"scad/pkg/platform/outbox"
)

// InMemoryStore keeps outbox entries in process memory.
// Sequence numbers are handed out under the store lock, so they follow append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*outbox.Entry
	byID    map[uuid.UUID]*outbox.Entry
	nextSeq int64
}

// New constructs an empty in-memory outbox.
func New() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]*outbox.Entry)}
}

func (s *InMemoryStore) Append(ctx context.Context, entry *outbox.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("outbox entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byID[entry.ID]; dup {
		return fmt.Errorf("outbox entry %s already appended", entry.ID)
	}
	s.nextSeq++
	entry.Sequence = s.nextSeq
	stored := *entry
	s.entries = append(s.entries, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

func (s *InMemoryStore) FetchUnprocessed(_ context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*outbox.Entry
	for _, e := range s.entries {
		if !e.IsPending() {
			continue
		}
		c := *e
		out = append(out, &c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkProcessed(_ context.Context, id uuid.UUID, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok || !e.IsPending() {
		return fmt.Errorf("outbox entry not found or already processed: %s", id)
	}
	e.ProcessedAt = &processedAt
	return nil
}

func (s *InMemoryStore) CountPending(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.entries {
		if e.IsPending() {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(s.byID, e.ID)
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

func (s *InMemoryStore) ListAfter(_ context.Context, after int64, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	// entries is sorted by Sequence; find the first one past the cursor.
	start := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Sequence > after
	})
	end := min(start+limit, len(s.entries))
	out := make([]*outbox.Entry, 0, end-start)
	for _, e := range s.entries[start:end] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

var _ outbox.Store = (*InMemoryStore)(nil)
