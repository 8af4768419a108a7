// Package kafka publishes events to a Kafka topic with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/vignettes/pkg/eventstream"
)

const defaultBatchTimeout = 50 * time.Millisecond

// Config is the configuration for the Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string
	Logger  *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes JSON encoded events keyed by event type.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("kafka publisher needs at least one broker")
	}
	if c.Topic == "" {
		return nil, errors.New("kafka publisher needs a topic")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           defaultBatchTimeout,
		AllowAutoTopicCreation: true,
	}

	return newWithWriter(w, c.Topic, c.Logger), nil
}

func newWithWriter(w messageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger}
}

// Publish encodes and writes event synchronously.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.Event) error {
	if err := eventstream.Validate(event); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.EventType),
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing event to %s: %w", p.topic, err)
	}

	p.logger.Debug("event published",
		"topic", p.topic,
		"event_type", event.EventType,
		"event_id", event.EventID,
	)

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
