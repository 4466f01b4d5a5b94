package redis

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fixedPool struct{ stats redis.PoolStats }

func (f fixedPool) PoolStats() *redis.PoolStats { return &f.stats }

func TestPoolCollectorReadsStatsAtScrape(t *testing.T) {
	c := newPoolCollector(fixedPool{stats: redis.PoolStats{
		Hits:       7,
		Misses:     2,
		TotalConns: 3,
		IdleConns:  1,
	}}, "scad")

	expected := `
# HELP scad_redis_pool_hits_total Number of times a connection was found in the pool.
# TYPE scad_redis_pool_hits_total counter
scad_redis_pool_hits_total 7
# HELP scad_redis_pool_idle_conns Number of idle connections in the pool.
# TYPE scad_redis_pool_idle_conns gauge
scad_redis_pool_idle_conns 1
# HELP scad_redis_pool_misses_total Number of times a connection was not found in the pool.
# TYPE scad_redis_pool_misses_total counter
scad_redis_pool_misses_total 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"scad_redis_pool_hits_total",
		"scad_redis_pool_misses_total",
		"scad_redis_pool_idle_conns",
	))
	require.Equal(t, 6, testutil.CollectAndCount(c))
}
