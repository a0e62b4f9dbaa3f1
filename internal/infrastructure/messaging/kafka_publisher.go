package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"account-service/config"
	"account-service/internal/domain/event"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Writer is the subset of kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events as JSON messages.
type KafkaPublisher struct {
	log    *logrus.Logger
	writer Writer
}

// NewPublisher returns a Kafka publisher, or a no-op one when no broker is
// configured.
func NewPublisher(cfg config.KafkaConfig, log *logrus.Logger) event.Publisher {
	if len(cfg.Brokers) == 0 {
		log.Info("Kafka brokers not configured, events will not be published")
		return NoopPublisher{}
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(w, log)
}

func NewKafkaPublisherWithWriter(w Writer, log *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{log: log, writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, e event.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.Name, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_name", Value: []byte(e.Name)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warnf("Failed to publish event %s: %+v", e.Name, err)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, e event.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
