// Package events publishes evaluation events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/version"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// DefaultTopic receives evaluation events when no topic is configured.
const DefaultTopic = "mealguard.evaluations"

// Producer is the subset of the franz-go client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher writes one record per evaluation, keyed by resident so a
// resident's events stay ordered within a partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{producer: producer, topic: topic}
}

// DialKafka creates a franz-go client for brokers.
func DialKafka(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("mealguard"),
		kgo.SoftwareNameAndVersion("mealguard", version.Get().Version),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return NewKafkaPublisher(client, topic), nil
}

// PublishEvaluation encodes event as JSON and produces it synchronously.
func (p *KafkaPublisher) PublishEvaluation(ctx context.Context, event dto.EvaluationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ResidentID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "verdict", Value: []byte(event.Verdict)},
			{Key: "ruleset_version", Value: []byte(event.RuleSetVersion)},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and closes the client.
func (p *KafkaPublisher) Close() error {
	p.producer.Close()
	return nil
}
