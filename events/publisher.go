package events

import (
	"context"
	"encoding/json"
	"fmt"
	"price-manager-service/models"
	awspkg "price-manager-service/pkg/aws"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher announces price writes to downstream systems.
type Publisher interface {
	Publish(ctx context.Context, event models.PriceEvent) error
	Close() error
}

func encode(event models.PriceEvent) ([]byte, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	return data, nil
}

// partitionKey keeps events of one SKU (or one import job) in order.
func partitionKey(event models.PriceEvent) string {
	if event.SKU != "" {
		return event.SKU
	}
	return event.JobID
}

// SNSPublisher sends events to a topic with an event_type attribute.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.PriceEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.topicArn, data, map[string]string{"event_type": event.EventType})
}

func (p *SNSPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic.
type KafkaPublisher struct {
	writer messageWriter
}

// kafkaBatchTimeout bounds how long a write waits for a batch to fill. Each
// Publish sends one message, so the writer's 1s default would stall callers.
const kafkaBatchTimeout = 5 * time.Millisecond

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: kafkaBatchTimeout,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.PriceEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:     []byte(partitionKey(event)),
		Value:   data,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.EventType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", event.EventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// NopPublisher drops every event. It is used when no backend is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.PriceEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
