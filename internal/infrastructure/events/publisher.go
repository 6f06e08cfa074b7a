package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes booking events to a Kafka topic keyed by booking id
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

// PublishBookingCreated implements domain.BookingPublisher
func (p *KafkaPublisher) PublishBookingCreated(ctx context.Context, event *domain.BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

// Close implements domain.BookingPublisher
func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// LogPublisher is used when no brokers are configured
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that only logs events
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// PublishBookingCreated implements domain.BookingPublisher
func (p *LogPublisher) PublishBookingCreated(_ context.Context, event *domain.BookingEvent) error {
	p.logger.Debug("booking event",
		zap.String("type", event.Type),
		zap.String("booking_id", event.BookingID))
	return nil
}

// Close implements domain.BookingPublisher
func (p *LogPublisher) Close() error { return nil }

var (
	_ domain.BookingPublisher = (*KafkaPublisher)(nil)
	_ domain.BookingPublisher = (*LogPublisher)(nil)
)
