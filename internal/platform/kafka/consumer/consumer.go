package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message represents a received Kafka message.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes consumed messages.
type Handler interface {
	// Handle processes a message. A returned error leaves the offset uncommitted
	// and the message is handled again after RetryDelay.
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error { return f(ctx, msg) }

// Consumer is a franz-go group consumer with manual, at-least-once commits.
type Consumer struct {
	client     *kgo.Client
	handler    Handler
	logger     *slog.Logger
	retryDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// Config holds consumer configuration.
type Config struct {
	Brokers []string
	GroupID string
	Topics  []string
	// FromStart consumes from the earliest offset when the group has no commit.
	FromStart bool
	// RetryDelay is the pause before a failed message is handled again. Defaults to 1s.
	RetryDelay time.Duration
}

// New creates a new Kafka consumer subscribed to cfg.Topics.
func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer group ID not configured")
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("kafka consumer topics not configured")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reset := kgo.NewOffset().AtEnd()
	if cfg.FromStart {
		reset = kgo.NewOffset().AtStart()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.ConsumeResetOffset(reset),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		client:     client,
		handler:    handler,
		logger:     logger,
		retryDelay: retryDelay,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start begins the consumption loop in a background goroutine.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.run()
}

// Run starts the consumer and blocks until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	c.Start()
	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.Stop(stopCtx)
}

func (c *Consumer) run() {
	defer c.wg.Done()

	for {
		fetches := c.client.PollFetches(c.ctx)
		if fetches.IsClientClosed() || c.ctx.Err() != nil {
			return
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error("kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var handled []*kgo.Record
		rewind := map[string]map[int32]kgo.EpochOffset{}
		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			for _, r := range p.Records {
				if !c.handleRecord(r) {
					// Later records on this partition wait for the failed one.
					if rewind[r.Topic] == nil {
						rewind[r.Topic] = map[int32]kgo.EpochOffset{}
					}
					rewind[r.Topic][r.Partition] = kgo.EpochOffset{Epoch: r.LeaderEpoch, Offset: r.Offset}
					return
				}
				handled = append(handled, r)
			}
		})

		if len(handled) > 0 {
			if err := c.client.CommitRecords(c.ctx, handled...); err != nil && c.ctx.Err() == nil {
				c.logger.Error("failed to commit offsets", "records", len(handled), "error", err)
			}
		}
		if len(rewind) > 0 {
			c.client.SetOffsets(rewind)
			c.backoff()
		}
	}
}

func (c *Consumer) backoff() {
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
	case <-t.C:
	}
}

func (c *Consumer) handleRecord(r *kgo.Record) bool {
	msg := toMessage(r)
	if err := c.handler.Handle(c.ctx, msg); err != nil {
		c.logger.Error("failed to handle message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return false
	}
	return true
}

func toMessage(r *kgo.Record) *Message {
	headers := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
		Timestamp: r.Timestamp,
	}
}

// Stop gracefully stops the consumer.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.client.Close()
		return nil
	case <-ctx.Done():
		c.client.Close()
		return ctx.Err()
	}
}

// Health pings the brokers.
func (c *Consumer) Health(ctx context.Context) error {
	return c.client.Ping(ctx)
}
