package kafka

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/segmentio/kafka-go"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// brokerHiccups are error texts kafka-go surfaces without a typed error.
var brokerHiccups = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"i/o timeout",
}

// Retryable reports whether publishing the same message again could succeed. Malformed
// messages and a closed producer never will; broker and network trouble usually does.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrProducerClosed), errors.Is(err, ErrInvalidMessage),
		errors.Is(err, ErrEmptyKey), errors.Is(err, ErrEmptyValue):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range brokerHiccups {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
