// Package kafka publishes transition side effects to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/ports/messaging"
	"github.com/SscSPs/refinance_review_app/internal/middleware"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// EffectPublisher writes one message per effect, keyed by application ID so
// events for an application stay ordered within a partition.
type EffectPublisher struct {
	writer messageWriter
	topic  string
}

var _ messaging.EffectPublisher = (*EffectPublisher)(nil)

// NewEffectPublisher creates a publisher backed by a kafka-go Writer.
func NewEffectPublisher(brokers []string, topic string) *EffectPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Compression:  kafkago.Snappy,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &EffectPublisher{writer: w, topic: topic}
}

func newEffectPublisherWithWriter(w messageWriter, topic string) *EffectPublisher {
	return &EffectPublisher{writer: w, topic: topic}
}

// Publish encodes and writes the effects in one batch.
func (p *EffectPublisher) Publish(ctx context.Context, effects ...domain.Effect) error {
	if len(effects) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(effects))
	for _, eff := range effects {
		value, err := json.Marshal(eff)
		if err != nil {
			return fmt.Errorf("failed to encode %s effect for application %s: %w", eff.Event, eff.ApplicationID, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(eff.ApplicationID),
			Value: value,
			Time:  eff.OccurredAt,
			Headers: []kafkago.Header{
				{Key: "event", Value: []byte(eff.Event)},
				{Key: "kind", Value: []byte(eff.Kind)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(msgs), p.topic, err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Published application events", slog.String("topic", p.topic), slog.Int("count", len(msgs)))
	return nil
}

// Close flushes pending writes.
func (p *EffectPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher records effects in the request log when no broker is configured.
type LogPublisher struct{}

var _ messaging.EffectPublisher = LogPublisher{}

// Publish logs each effect.
func (LogPublisher) Publish(ctx context.Context, effects ...domain.Effect) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, eff := range effects {
		attrs := []any{
			slog.String("event", eff.Event),
			slog.String("kind", string(eff.Kind)),
			slog.String("application_id", eff.ApplicationID),
			slog.String("stage", string(eff.Stage)),
			slog.String("status", eff.Status),
		}
		if eff.ScheduledFor != nil {
			attrs = append(attrs, slog.Time("scheduled_for", *eff.ScheduledFor))
		}
		logger.Info("Application event", attrs...)
	}
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }
