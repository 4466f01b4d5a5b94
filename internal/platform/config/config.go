package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevSigningKey is only accepted outside production.
const DevSigningKey = "dev-secret-key-change-in-production"

// Server captures process level configuration.
type Server struct {
	Addr          string        `env:"SCAD_ADDR, default=:8080"`
	AuditorAddr   string        `env:"AUDITOR_ADDR, default=:9090"`
	Environment   string        `env:"ENVIRONMENT, default=development"`
	LogLevel      string        `env:"LOG_LEVEL, default=info"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY, default=dev-secret-key-change-in-production"`
	JWTIssuer     string        `env:"JWT_ISSUER, default=scad"`
	JWTAudience   string        `env:"JWT_AUDIENCE, default=scad-api"`
	TokenTTL      time.Duration `env:"TOKEN_TTL, default=15m"`
	TxTimeout     time.Duration `env:"TX_TIMEOUT, default=5s"`
	OTelEnabled   bool          `env:"OTEL_ENABLED, default=false"`

	// TrustedProxies lists CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
}

// DatabaseConfig selects the PostgreSQL backend. An empty URL means in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME, default=5m"`
	ConnectTimeout  time.Duration `env:"DATABASE_CONNECT_TIMEOUT, default=5s"`
}

// RedisConfig configures the registration record cache. An empty URL disables it.
type RedisConfig struct {
	URL            string        `env:"REDIS_URL"`
	PoolSize       int           `env:"REDIS_POOL_SIZE, default=10"`
	MinIdleConns   int           `env:"REDIS_MIN_IDLE_CONNS, default=2"`
	DialTimeout    time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
	ReadTimeout    time.Duration `env:"REDIS_READ_TIMEOUT, default=3s"`
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT, default=3s"`
	RecordCacheTTL time.Duration `env:"RECORD_CACHE_TTL, default=10m"`
}

// KafkaConfig configures event delivery. No brokers means events stay in the outbox.
type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS"`
	EventsTopic   string   `env:"KAFKA_EVENTS_TOPIC, default=scad.ledger.events"`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP, default=scad-auditor"`
	Partitions    int32    `env:"KAFKA_TOPIC_PARTITIONS, default=6"`
	Replication   int16    `env:"KAFKA_TOPIC_REPLICATION, default=1"`
}

type OutboxConfig struct {
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL, default=100ms"`
	BatchSize    int           `env:"OUTBOX_BATCH_SIZE, default=100"`
	// Retention of zero keeps published entries forever, which the event feed relies on.
	Retention time.Duration `env:"OUTBOX_RETENTION, default=0s"`
}

func (c Server) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate rejects combinations that must not reach production.
func (c Server) Validate() error {
	if c.IsProduction() && c.JWTSigningKey == DevSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	if c.TxTimeout <= 0 {
		return fmt.Errorf("TX_TIMEOUT must be positive")
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv(ctx context.Context) (Server, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Server, error) {
	var cfg Server
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Server{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}
