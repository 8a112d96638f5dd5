package config

const (
	EnvStoreURL            = "STORE_URL"
	EnvStoreDatabaseName   = "STORE_DATABASE_NAME"
	EnvStoreConnTimeout    = "STORE_CONN_TIMEOUT"
	EnvStoreAnonKey        = "STORE_ANON_KEY"
	EnvStoreServiceRoleKey = "STORE_SERVICE_ROLE_KEY"

	EnvPublicBaseURL = "PUBLIC_BASE_URL"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTimezone              = "TIMEZONE"
	EnvTeamCount             = "TEAM_COUNT"
	EnvSchedulingHorizonDays = "SCHEDULING_HORIZON_DAYS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvEventsEnabled         = "EVENTS_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
)
