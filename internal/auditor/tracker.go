package auditor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"scad/pkg/domain"
)

const redisPositionKeyPrefix = "scad:auditor:last:"

// MemoryTracker keeps positions in process memory. Positions are lost on
// restart, so events redelivered after a restart are recorded again.
type MemoryTracker struct {
	mu   sync.Mutex
	last map[domain.Address]int64
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{last: make(map[domain.Address]int64)}
}

func (t *MemoryTracker) Last(_ context.Context, owner domain.Address) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last[owner], nil
}

func (t *MemoryTracker) Advance(_ context.Context, owner domain.Address, sequence int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sequence > t.last[owner] {
		t.last[owner] = sequence
	}
	return nil
}

// advanceScript sets the key only when the new sequence is higher.
var advanceScript = redis.NewScript(`
local cur = tonumber(redis.call("GET", KEYS[1]) or "0")
local next = tonumber(ARGV[1])
if next > cur then
	redis.call("SET", KEYS[1], ARGV[1])
	return next
end
return cur
`)

// RedisTracker keeps positions in Redis so they survive auditor restarts and
// are shared by every member of the consumer group.
type RedisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

func (t *RedisTracker) Last(ctx context.Context, owner domain.Address) (int64, error) {
	v, err := t.client.Get(ctx, positionKey(owner)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get audit position: %w", err)
	}
	return v, nil
}

func (t *RedisTracker) Advance(ctx context.Context, owner domain.Address, sequence int64) error {
	if err := advanceScript.Run(ctx, t.client, []string{positionKey(owner)}, sequence).Err(); err != nil {
		return fmt.Errorf("advance audit position: %w", err)
	}
	return nil
}

func positionKey(owner domain.Address) string {
	return redisPositionKeyPrefix + owner.String()
}
