package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"scad/internal/platform/config"
)

// Client wraps the go-redis client with health checking and pool metrics.
type Client struct {
	*redis.Client
}

// New connects to the Redis named by cfg.URL and pings it once.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Collector exposes the connection pool counters under namespace. Values are
// read from the pool at scrape time.
func (c *Client) Collector(namespace string) prometheus.Collector {
	return newPoolCollector(c.Client, namespace)
}

type poolCollector struct {
	pool interface{ PoolStats() *redis.PoolStats }

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	stale      *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
}

func newPoolCollector(pool interface{ PoolStats() *redis.PoolStats }, namespace string) *poolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "redis_pool", name), help, nil, nil)
	}
	return &poolCollector{
		pool:       pool,
		hits:       desc("hits_total", "Number of times a connection was found in the pool."),
		misses:     desc("misses_total", "Number of times a connection was not found in the pool."),
		timeouts:   desc("timeouts_total", "Number of times a connection was not obtained due to timeout."),
		stale:      desc("stale_conns_total", "Number of stale connections removed from the pool."),
		totalConns: desc("total_conns", "Number of total connections in the pool."),
		idleConns:  desc("idle_conns", "Number of idle connections in the pool."),
	}
}

func (p *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.hits
	ch <- p.misses
	ch <- p.timeouts
	ch <- p.stale
	ch <- p.totalConns
	ch <- p.idleConns
}

func (p *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := p.pool.PoolStats()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(p.timeouts, prometheus.CounterValue, float64(stats.Timeouts))
	ch <- prometheus.MustNewConstMetric(p.stale, prometheus.CounterValue, float64(stats.StaleConns))
	ch <- prometheus.MustNewConstMetric(p.totalConns, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.idleConns, prometheus.GaugeValue, float64(stats.IdleConns))
}
