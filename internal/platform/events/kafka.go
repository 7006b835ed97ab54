package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"univote/internal/platform/config"
)

// KafkaPublisher publishes ballot events to a Kafka topic, keyed by election
// so per-election ordering is preserved.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the brokers and ensures the topic exists.
// Returns nil if no brokers are configured (events disabled).
func NewKafkaPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	return &KafkaPublisher{
		client: client,
		topic:  cfg.Topic,
		logger: logger,
	}, nil
}

// Publish sends the envelope synchronously. Callers decide whether delivery
// failure is fatal; the ballot service logs and continues.
func (p *KafkaPublisher) Publish(ctx context.Context, envelope Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(envelope.ElectionID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// ensureTopic creates the events topic if it does not exist yet. Single
// partition is enough for this volume; keys keep ordering per election anyway.
func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	details, err := adm.ListTopics(ctx, topic)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if details.Has(topic) {
		return nil
	}
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return nil
}
