// Package kafka holds broker administration shared by the server and the auditor.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Admin wraps a kadm client for topic bootstrap and readiness checks.
type Admin struct {
	adm *kadm.Client
}

func NewAdmin(brokers []string) (*Admin, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create kafka admin client: %w", err)
	}
	return &Admin{adm: kadm.NewClient(client)}, nil
}

// EnsureTopic creates topic if it does not exist. An existing topic is left as is.
func (a *Admin) EnsureTopic(ctx context.Context, topic string, partitions int32, replication int16) error {
	resp, err := a.adm.CreateTopic(ctx, partitions, replication, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

// Health succeeds when broker metadata can be fetched.
func (a *Admin) Health(ctx context.Context) error {
	if _, err := a.adm.BrokerMetadata(ctx); err != nil {
		return fmt.Errorf("kafka metadata: %w", err)
	}
	return nil
}

func (a *Admin) Close() {
	a.adm.Close()
}
