// Package events publishes booking lifecycle events. Publishing is best effort: a booking is
// committed before its event is sent, and a failed publish never undoes it.
package events

import (
	"context"
	"time"

	"cleanbook/pkg/config"
	"cleanbook/pkg/kafka"
	kafka_config "cleanbook/pkg/kafka/config"
	kafka_middleware "cleanbook/pkg/kafka/middleware"
	"cleanbook/pkg/middleware"
	"cleanbook/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingStatus    = "booking.status_changed"

	SchemaVersion = "1"
	Source        = "cleanbook-api"
)

// BookingEvent is the payload of every booking lifecycle event.
type BookingEvent struct {
	Type          string              `json:"type"`
	BookingID     string              `json:"booking_id"`
	BookingNumber string              `json:"booking_number"`
	Status        model.BookingStatus `json:"status"`
	ServiceID     string              `json:"service_id"`
	BookingDate   string              `json:"booking_date"`
	TimeSlot      string              `json:"time_slot"`
	TeamNumber    int                 `json:"team_number"`
	TotalPrice    float64             `json:"total_price"`
	CustomerEmail string              `json:"customer_email"`
	ManageURL     string              `json:"manage_url,omitempty"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Status:        b.Status,
		ServiceID:     b.ServiceID,
		BookingDate:   b.BookingDate,
		TimeSlot:      b.TimeSlot,
		TeamNumber:    b.TeamNumber,
		TotalPrice:    b.TotalPrice,
		CustomerEmail: b.Customer.Email,
		ManageURL:     b.ManageURL,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher sends events keyed by booking number, so every event of one booking lands
// on the same partition.
type KafkaPublisher struct {
	producer messagePublisher
}

func NewKafkaPublisher(producer messagePublisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// NewPublisher returns a Kafka-backed publisher when events are enabled and a NopPublisher
// otherwise.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return NopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		return nil, err
	}
	if kafkaCfg.LogMessages {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic, "dlq_topic", cfg.BookingEventsDLQTopic)
	return NewKafkaPublisher(producer), nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingNumber).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithValue(event).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
