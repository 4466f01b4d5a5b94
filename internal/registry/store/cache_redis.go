package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"scad/internal/identifier"
	"scad/internal/registry/metrics"
	"scad/internal/registry/models"
	"scad/pkg/domain"
)

const redisRecordKeyPrefix = "scad:registry:record:"

// Reader is the lookup the cache sits in front of.
type Reader interface {
	FindByOwner(ctx context.Context, owner domain.Address) (*models.Record, error)
}

// CachedReader serves FindByOwner from Redis, falling back to the backing store.
// Only hits are cached: records are write-once, so a cached record never goes stale,
// while a cached miss would hide a later registration.
type CachedReader struct {
	next    Reader
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachedReader wraps next with a Redis cache. metrics and logger may be nil.
func NewCachedReader(next Reader, client *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *CachedReader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedReader{next: next, client: client, ttl: ttl, metrics: m, logger: logger}
}

type cachedRecord struct {
	Owner        string    `json:"owner"`
	Identifier   string    `json:"identifier"`
	IsCompany    bool      `json:"is_company"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (c *CachedReader) FindByOwner(ctx context.Context, owner domain.Address) (*models.Record, error) {
	start := time.Now()
	rec, err := c.get(ctx, owner)
	switch {
	case err == nil:
		c.observe("hit", start)
		return rec, nil
	case errors.Is(err, redis.Nil):
		c.observe("miss", start)
	default:
		c.observe("error", start)
		c.logger.WarnContext(ctx, "registry cache read failed", "error", err)
	}

	rec, err = c.next.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.put(ctx, rec); err != nil {
		c.logger.WarnContext(ctx, "registry cache write failed", "error", err)
	}
	return rec, nil
}

func (c *CachedReader) get(ctx context.Context, owner domain.Address) (*models.Record, error) {
	data, err := c.client.Get(ctx, recordKey(owner)).Bytes()
	if err != nil {
		return nil, err
	}
	var cr cachedRecord
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("decode registry cache: %w", err)
	}
	return &models.Record{
		Owner:        domain.Address(cr.Owner),
		Identifier:   identifier.Digits(cr.Identifier),
		IsCompany:    cr.IsCompany,
		RegisteredAt: cr.RegisteredAt,
	}, nil
}

func (c *CachedReader) put(ctx context.Context, r *models.Record) error {
	payload, err := json.Marshal(cachedRecord{
		Owner:        r.Owner.String(),
		Identifier:   r.Identifier.String(),
		IsCompany:    r.IsCompany,
		RegisteredAt: r.RegisteredAt,
	})
	if err != nil {
		return fmt.Errorf("encode registry cache: %w", err)
	}
	if err := c.client.Set(ctx, recordKey(r.Owner), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("save registry cache: %w", err)
	}
	return nil
}

func (c *CachedReader) observe(result string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveCacheLookup(result, time.Since(start).Seconds())
	}
}

func recordKey(owner domain.Address) string {
	return redisRecordKeyPrefix + owner.String()
}
