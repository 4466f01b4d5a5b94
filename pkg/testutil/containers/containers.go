//go:build integration

// Package containers provides testcontainers-based fixtures for integration tests.
// Containers are started once per test binary and shared across suites; Ryuk
// reaps them when the binary exits.
package containers

import (
	"sync"
	"testing"
)

// Manager starts each backing service at most once per test binary.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	kafka    *KafkaContainer
	redis    *RedisContainer
}

var (
	globalManager *Manager
	initOnce      sync.Once
)

func GetManager() *Manager {
	initOnce.Do(func() {
		globalManager = &Manager{}
	})
	return globalManager
}

func shared[C any](m *Manager, slot **C, t *testing.T, start func(*testing.T) *C) *C {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if *slot == nil {
		*slot = start(t)
	}
	return *slot
}

// GetPostgres returns a PostgreSQL container with the ledger schema applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	return shared(m, &m.postgres, t, NewPostgresContainer)
}

// GetKafka returns a Redpanda broker.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	return shared(m, &m.kafka, t, NewKafkaContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	return shared(m, &m.redis, t, NewRedisContainer)
}
