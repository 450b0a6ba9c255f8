// Package kafka publishes stream events to a Kafka topic as JSON for
// progressive-UI and analytics consumers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/eventstream"
)

// Config holds Kafka publisher settings.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the destination topic for all stream events.
	Topic string

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Publisher writes stream events to a Kafka topic. Messages are keyed
// by RunID so all events of one stream land in one partition and keep
// their emission order.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates a Kafka-backed eventstream publisher.
// Construction fails fast on missing brokers or topic.
func NewPublisher(c *Config) (*Publisher, error) {
	if c == nil {
		return nil, errors.New("nil kafka config")
	}
	if len(c.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if c.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(c.Brokers...),
		Topic:    c.Topic,
		Balancer: &kafka.Hash{},
	}

	return &Publisher{writer: writer, logger: logger}, nil
}

// PublishStreamStart writes a stream-start event to the topic.
func (p *Publisher) PublishStreamStart(ctx context.Context, event *eventstream.StreamStartEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return p.publish(ctx, event.RunID, event)
}

// PublishToken writes a token event to the topic.
func (p *Publisher) PublishToken(ctx context.Context, event *eventstream.TokenEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return p.publish(ctx, event.RunID, event)
}

func (p *Publisher) publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("writing event to kafka: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("run_id", key),
		zap.Int("bytes", len(value)),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
