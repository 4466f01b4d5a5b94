//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"scad/internal/platform/kafka/producer"
	"scad/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

// Produce only returns after the broker acknowledged the record.
func (s *ProducerIntegrationSuite) TestProduceDeliversWithHeaders() {
	ctx := context.Background()
	topic := "test-produce-headers"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
		Value: []byte(`{"owner":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}`),
		Headers: map[string]string{
			"aggregate_type": "registration",
			"event_type":     "Registered",
		},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer("test-produce-headers-group", topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	})
	s.Require().NotNil(record, "message should be consumable")

	headers := map[string]string{}
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("registration", headers["aggregate_type"])
	s.Equal("Registered", headers["event_type"])
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}

func (s *ProducerIntegrationSuite) TestProduceAfterClose() {
	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(prod.Close())

	err = prod.Produce(context.Background(), &producer.Message{Topic: "closed"})
	s.Error(err)
	s.Error(prod.Health(context.Background()))
}
