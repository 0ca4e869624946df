package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return k.writer.WriteMessages(ctx, km...)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// EventPublisher serialises lifecycle events and hands them to the broker in
// the background. Orders are keyed by order id so one order's events stay on
// one partition.
type EventPublisher struct {
	port         domain.PublisherPort
	escrowTopic  string
	disputeTopic string
}

func NewEventPublisher(port domain.PublisherPort, escrowTopic, disputeTopic string) *EventPublisher {
	return &EventPublisher{port: port, escrowTopic: escrowTopic, disputeTopic: disputeTopic}
}

func (p *EventPublisher) PublishEscrowEvent(ctx context.Context, event domain.EscrowLifecycleEvent) {
	p.publish(p.escrowTopic, event.OrderID, event, "order_id", event.OrderID, "type", event.Type)
}

func (p *EventPublisher) PublishDisputeEvent(ctx context.Context, event domain.DisputeLifecycleEvent) {
	key := event.DisputeID
	if event.OrderID != "" {
		key = event.OrderID
	}
	p.publish(p.disputeTopic, key, event, "dispute_id", event.DisputeID, "type", event.Type)
}

func (p *EventPublisher) publish(topic, key string, event any, logArgs ...any) {
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event", append(logArgs, "error", err)...)
		return
	}
	go func() {
		if err := p.port.Publish(topic, domain.Message{Key: []byte(key), Value: value}); err != nil {
			slog.Error("failed to publish event", append(logArgs, "topic", topic, "error", err)...)
		}
	}()
}

// NoopPublisher is used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishEscrowEvent(context.Context, domain.EscrowLifecycleEvent)   {}
func (NoopPublisher) PublishDisputeEvent(context.Context, domain.DisputeLifecycleEvent) {}
