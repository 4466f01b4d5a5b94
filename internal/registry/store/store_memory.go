package store

import (
	"context"
	"sync"

	"scad/internal/registry/models"
	"scad/pkg/domain"
	"scad/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations in a map keyed by owner.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Address]models.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.Address]models.Record)}
}

// Create stores record, or returns sentinel.ErrConflict if the owner already has one.
func (s *InMemoryStore) Create(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Owner]; ok {
		return sentinel.ErrConflict
	}
	s.records[record.Owner] = *record
	return nil
}

// FindByOwner returns sentinel.ErrNotFound when the owner has no record.
func (s *InMemoryStore) FindByOwner(_ context.Context, owner domain.Address) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}
