// Package kafka publishes audit events to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"charterline/internal/audit"
)

// producer is the subset of *kgo.Client used here.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publisher writes one record per event, keyed by entity ID so events for
// an entity stay ordered within a partition.
type Publisher struct {
	client producer
	topic  string
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New connects to the given brokers.
func New(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(10*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return newWithProducer(client, topic, opts...), nil
}

func newWithProducer(client producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{client: client, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit blocks until the broker acknowledges the record.
func (p *Publisher) Emit(ctx context.Context, e audit.Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(e.EntityID),
		Value:     value,
		Timestamp: e.Timestamp,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(e.Action)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "kafka audit publish failed",
				"action", string(e.Action),
				"entity_id", e.EntityID,
				"error", err,
			)
		}
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
