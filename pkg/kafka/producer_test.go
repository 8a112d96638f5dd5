package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("CS-ABCD2345").
		WithEventType("booking.created").
		WithValue(map[string]string{"booking_number": "CS-ABCD2345"}).
		Build()
	if err != nil {
		t.Fatalf("failed to build message: %v", err)
	}
	return msg
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriters(writer, nil, "booking-events", "")

	var seenTopic string
	p.Use(func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error {
		seenTopic = msg.Topic
		return next(ctx, msg)
	})

	if err := p.Publish(context.Background(), buildMessage(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one written message, got %d", len(writer.messages))
	}
	if seenTopic != "booking-events" {
		t.Errorf("expected middleware to see topic booking-events, got %q", seenTopic)
	}
	written := writer.messages[0]
	if string(written.Key) != "CS-ABCD2345" {
		t.Errorf("unexpected key %q", written.Key)
	}
	if header(written, HeaderEventType) != "booking.created" || header(written, HeaderEventID) == "" {
		t.Errorf("missing headers: %+v", written.Headers)
	}
}

func TestProducer_PublishRejectsInvalid(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "t", "")

	if err := p.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	writer := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters(writer, dlq, "booking-events", "booking-events-dlq")

	msg := buildMessage(t)
	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected one DLQ message, got %d", len(dlq.messages))
	}
	if got := header(dlq.messages[0], HeaderOriginalTopic); got != "booking-events" {
		t.Errorf("expected original topic header, got %q", got)
	}
	if _, ok := msg.Headers[HeaderDLQError]; ok {
		t.Error("DLQ headers leaked into the caller's message")
	}
}

func TestMessageBuilder_InvalidValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "refused", err: errors.New("dial tcp: Connection Refused"), want: true},
		{name: "leader moved", err: fmt.Errorf("write: %w", kafka.NotLeaderForPartition), want: true},
		{name: "too large", err: kafka.MessageSizeTooLarge, want: false},
		{name: "closed", err: ErrProducerClosed, want: false},
		{name: "unknown", err: errors.New("schema mismatch"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
