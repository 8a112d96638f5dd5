package config

import "time"

const (
	DefaultStoreDatabaseName = "cleanbook"
	DefaultStoreConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTimezone              = "Europe/Zagreb"
	DefaultTeamCount             = 3
	DefaultSchedulingHorizonDays = 30

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024

	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 5 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEventsEnabled         = false
	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "booking-events-dlq"

	MaxTeamCount = 20
)
