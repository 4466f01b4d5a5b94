//go:build integration

package consumer_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"scad/internal/platform/kafka"
	"scad/internal/platform/kafka/consumer"
	"scad/internal/platform/kafka/producer"
	"scad/pkg/testutil/containers"
)

type ConsumerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestConsumerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ConsumerIntegrationSuite))
}

func (s *ConsumerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ConsumerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Handle(_ context.Context, msg *consumer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, string(msg.Key))
	return nil
}

func (r *recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func (s *ConsumerIntegrationSuite) produce(topic string, keys ...string) {
	for _, k := range keys {
		s.Require().NoError(s.producer.Produce(context.Background(), &producer.Message{
			Topic: topic,
			Key:   []byte(k),
			Value: []byte(`{}`),
		}))
	}
}

func (s *ConsumerIntegrationSuite) TestEnsureTopicIsIdempotent() {
	admin, err := kafka.NewAdmin(s.kafka.Brokers)
	s.Require().NoError(err)
	defer admin.Close()

	ctx := context.Background()
	s.Require().NoError(admin.EnsureTopic(ctx, "test-ensure-topic", 3, 1))
	s.Require().NoError(admin.EnsureTopic(ctx, "test-ensure-topic", 3, 1))
	s.NoError(admin.Health(ctx))
}

// Messages on one partition arrive in produce order.
func (s *ConsumerIntegrationSuite) TestConsumerReceivesInOrder() {
	topic := "test-consumer-order"
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), topic, 1, 1))
	s.produce(topic, "a", "b", "c")

	rec := &recorder{}
	cons, err := consumer.New(consumer.Config{
		Brokers:   s.kafka.Brokers,
		GroupID:   "test-consumer-order-group",
		Topics:    []string{topic},
		FromStart: true,
	}, rec, nil)
	s.Require().NoError(err)
	cons.Start()
	defer func() { _ = cons.Stop(context.Background()) }()

	s.Eventually(func() bool { return len(rec.Keys()) == 3 }, 15*time.Second, 100*time.Millisecond)
	s.Equal([]string{"a", "b", "c"}, rec.Keys())
}

// A failed message is handled again before any later message on its partition.
func (s *ConsumerIntegrationSuite) TestFailedMessageIsRetriedInPlace() {
	topic := "test-consumer-retry"
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), topic, 1, 1))
	s.produce(topic, "first", "second")

	var failures atomic.Int32
	var mu sync.Mutex
	var seen []string
	handler := consumer.HandlerFunc(func(_ context.Context, msg *consumer.Message) error {
		if string(msg.Key) == "first" && failures.Add(1) == 1 {
			return errors.New("transient")
		}
		mu.Lock()
		seen = append(seen, string(msg.Key))
		mu.Unlock()
		return nil
	})

	cons, err := consumer.New(consumer.Config{
		Brokers:    s.kafka.Brokers,
		GroupID:    "test-consumer-retry-group",
		Topics:     []string{topic},
		FromStart:  true,
		RetryDelay: 50 * time.Millisecond,
	}, handler, nil)
	s.Require().NoError(err)
	cons.Start()
	defer func() { _ = cons.Stop(context.Background()) }()

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 15*time.Second, 100*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]string{"first", "second"}, seen)
}
