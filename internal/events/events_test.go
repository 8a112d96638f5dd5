package events

import (
	"context"
	"errors"
	"testing"

	"cleanbook/pkg/config"
	"cleanbook/pkg/kafka"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/middleware"
	"cleanbook/pkg/model"
)

type fakeProducer struct {
	published []kafka.Message
	err       error
	closed    bool
}

func (f *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:            "0b9a3c1e-2f4d-4a8b-9c7e-1d2f3a4b5c6d",
		BookingNumber: "CS-7KQ2M9XP",
		Customer:      model.Customer{Email: "ana@example.hr"},
		ServiceID:     "std",
		BookingDate:   "2026-11-04",
		TimeSlot:      "09:00-11:00",
		TeamNumber:    2,
		TotalPrice:    75,
		Status:        model.StatusPending,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	if err := pub.Publish(ctx, NewBookingEvent(TypeBookingCreated, testBooking())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected one message, got %d", len(producer.published))
	}

	msg := producer.published[0]
	if msg.Key != "CS-7KQ2M9XP" {
		t.Errorf("expected booking number key, got %q", msg.Key)
	}
	if msg.GetEventType() != TypeBookingCreated {
		t.Errorf("expected event type %s, got %s", TypeBookingCreated, msg.GetEventType())
	}
	if msg.GetCorrelationID() != "req-42" {
		t.Errorf("expected correlation id req-42, got %q", msg.GetCorrelationID())
	}

	var decoded BookingEvent
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.TeamNumber != 2 || decoded.TimeSlot != "09:00-11:00" || decoded.CustomerEmail != "ana@example.hr" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	want := errors.New("broker down")
	pub := NewKafkaPublisher(&fakeProducer{err: want})

	if err := pub.Publish(context.Background(), NewBookingEvent(TypeBookingCancelled, testBooking())); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestNewPublisher_Disabled(t *testing.T) {
	pub, err := NewPublisher(&config.Config{Log: logger.Discard(), EventsEnabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(NopPublisher); !ok {
		t.Errorf("expected NopPublisher, got %T", pub)
	}
}
