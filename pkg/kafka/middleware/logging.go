package kafka_middleware

import (
	"context"
	"time"

	"clinicbook/pkg/kafka"
	"clinicbook/pkg/logger"
)

// LoggingProducerMiddleware logs each publish with its outcome and duration.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration", time.Since(start),
		}
		if correlationID := msg.GetCorrelationID(); correlationID != "" {
			attrs = append(attrs, "correlation_id", correlationID)
		}

		if err != nil {
			log.Error("Failed to publish message", append(attrs, "error", err)...)
		} else {
			log.Debug("Published message", attrs...)
		}

		return err
	}
}
