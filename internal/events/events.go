// Package events publishes booking lifecycle events. Publishing is best
// effort: callers log a failure and carry on.
package events

import (
	"context"
	"fmt"
	"time"

	"clinicbook/pkg/kafka"
	kafka_config "clinicbook/pkg/kafka/config"
	kafka_middleware "clinicbook/pkg/kafka/middleware"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/middleware"
	"clinicbook/pkg/model"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeNotificationConsumed = "notification.consumed"

	schemaVersion = "1"
)

type Event struct {
	Type       string
	Key        string
	OccurredAt time.Time
	Payload    any
}

type BookingCreatedPayload struct {
	BookingID        string                 `json:"booking_id"`
	NotificationID   string                 `json:"notification_id"`
	Date             string                 `json:"date"`
	Time             string                 `json:"time"`
	ConsultationType model.ConsultationType `json:"consultation_type"`
	CreatedAt        time.Time              `json:"created_at"`
}

type NotificationConsumedPayload struct {
	NotificationID string `json:"notification_id"`
}

func BookingCreated(b *model.Booking, notificationID string) Event {
	return Event{
		Type:       TypeBookingCreated,
		Key:        b.Slot().Key(),
		OccurredAt: b.CreatedAt,
		Payload: BookingCreatedPayload{
			BookingID:        b.ID,
			NotificationID:   notificationID,
			Date:             b.Date,
			Time:             b.Time,
			ConsultationType: b.ConsultationType,
			CreatedAt:        b.CreatedAt,
		},
	}
}

func NotificationConsumed(id string, at time.Time) Event {
	return Event{
		Type:       TypeNotificationConsumed,
		Key:        id,
		OccurredAt: at,
		Payload:    NotificationConsumedPayload{NotificationID: id},
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	builder := kafka.NewMessage().
		WithKey(event.Key).
		WithEventType(event.Type).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithValue(event.Payload)
	if !event.OccurredAt.IsZero() {
		builder = builder.WithTimestamp(event.OccurredAt)
	}
	builder = builder.WithCorrelationID(middleware.RequestIDFromContext(ctx))

	msg, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// New returns a Kafka publisher when enabled and a no-op publisher otherwise.
func New(enabled bool, topic, source string, log *logger.Logger) (Publisher, error) {
	if !enabled {
		log.Info("Event publishing disabled")
		return NewNoopPublisher(), nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kafkaCfg.LogConfiguration(log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("Event publishing enabled", "topic", topic)
	return NewKafkaPublisher(producer, source, log), nil
}
