package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Notifier is the part of the backend client the outbox calls.
type Notifier interface {
	AddCartEvent(ctx context.Context, token, productID string) error
	RemoveCartEvent(ctx context.Context, token, productID string) error
	Logout(ctx context.Context, token string) error
}

// BackendSink forwards events to the backend REST endpoints.
type BackendSink struct {
	notifier Notifier
}

func NewBackendSink(n Notifier) *BackendSink {
	return &BackendSink{notifier: n}
}

func (s *BackendSink) Deliver(ctx context.Context, e Event) error {
	switch e.Kind {
	case KindCartAdd:
		return s.notifier.AddCartEvent(ctx, e.Token, e.ProductID)
	case KindCartRemove:
		return s.notifier.RemoveCartEvent(ctx, e.Token, e.ProductID)
	case KindLogout:
		return s.notifier.Logout(ctx, e.Token)
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// DefaultTopic receives storefront activity events.
const DefaultTopic = "storefront-activity"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON, keyed by product id so events for one
// product stay ordered.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(topic string, brokers ...string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &KafkaSink{writer: w}
}

func (s *KafkaSink) Deliver(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := e.ProductID
	if key == "" {
		key = e.ID.String()
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Kind)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
