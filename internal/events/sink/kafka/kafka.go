// Package kafka publishes outcome events to a Kafka-compatible broker so
// downstream consumers (alerting, analytics) can subscribe independently.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"roomalchemy/internal/events"
)

// Sink produces one record per event, keyed by client IP so per-client
// ordering survives partitioning.
type Sink struct {
	client *kgo.Client
	topic  string
}

// New creates a Kafka sink. brokers is a comma-separated seed list.
func New(brokers, topic string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic}, nil
}

func (s *Sink) Name() string { return "kafka" }

// Send produces one event record synchronously under the dispatch deadline.
func (s *Sink) Send(ctx context.Context, ev events.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(ev.ClientIP),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (s *Sink) Close() {
	s.client.Close()
}
