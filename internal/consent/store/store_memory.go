package store

import (
	"context"
	"sort"
	"sync"

	"scad/internal/consent/models"
	"scad/pkg/domain"
	"scad/pkg/platform/sentinel"
)

type key struct {
	owner  domain.Address
	reader domain.Address
}

// InMemoryStore keeps consent grants keyed by (owner, reader).
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[key]models.Grant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{grants: make(map[key]models.Grant)}
}

// Upsert writes g, replacing any previous value for the same pair.
func (s *InMemoryStore) Upsert(_ context.Context, g *models.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[key{g.Owner, g.Reader}] = *g
	return nil
}

// Find returns sentinel.ErrNotFound when the pair was never written.
func (s *InMemoryStore) Find(_ context.Context, owner, reader domain.Address) (*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grants[key{owner, reader}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &g, nil
}

// ListGranted returns owner's active grants ordered by reader.
func (s *InMemoryStore) ListGranted(_ context.Context, owner domain.Address) ([]*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Grant
	for k, g := range s.grants {
		if k.owner != owner || !g.Granted {
			continue
		}
		c := g
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reader < out[j].Reader })
	return out, nil
}
