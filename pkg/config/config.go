package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cleanbook/pkg/client"
	"cleanbook/pkg/logger"

	"github.com/joho/godotenv"
)

// Config is built once at process start and treated as read-only afterwards.
type Config struct {
	StoreURL            string
	StoreDatabaseName   string
	StoreConnTimeout    time.Duration
	StoreAnonKey        string
	StoreServiceRoleKey string

	PublicBaseURL string

	Port string

	Timezone              string
	Location              *time.Location
	TeamCount             int
	SchedulingHorizonDays int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	EventsEnabled         bool
	BookingEventsTopic    string
	BookingEventsDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the environment (and a local .env file when present), validates it and
// exits the process on invalid configuration.
func Load(serviceName string) *Config {
	envErr := godotenv.Load()

	cfg := FromEnv(serviceName)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		cfg.Log.Warn("Failed to read .env file", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		StoreURL:            getEnvStr(EnvStoreURL, ""),
		StoreDatabaseName:   getEnvStr(EnvStoreDatabaseName, DefaultStoreDatabaseName),
		StoreConnTimeout:    getEnvDuration(EnvStoreConnTimeout, DefaultStoreConnTimeout),
		StoreAnonKey:        getEnvStr(EnvStoreAnonKey, ""),
		StoreServiceRoleKey: getEnvStr(EnvStoreServiceRoleKey, ""),

		PublicBaseURL: strings.TrimRight(getEnvStr(EnvPublicBaseURL, ""), "/"),

		Port: getEnvStr(EnvPort, DefaultPort),

		Timezone:              getEnvStr(EnvTimezone, DefaultTimezone),
		TeamCount:             getEnvNum(EnvTeamCount, DefaultTeamCount),
		SchedulingHorizonDays: getEnvNum(EnvSchedulingHorizonDays, DefaultSchedulingHorizonDays),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		EventsEnabled:         getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		cfg.Location = loc
	}
	return cfg
}

// SetStore connects the privileged client and, when an anon key is configured, the
// read-only public client.
func (cfg *Config) SetStore() {
	cfg.Client.SetMongo(cfg.Log, client.MongoOptions{
		URI:            cfg.StoreURL,
		ConnTimeout:    cfg.StoreConnTimeout,
		ServiceRoleKey: cfg.StoreServiceRoleKey,
		AnonKey:        cfg.StoreAnonKey,
	})
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.StoreURL == "" {
		errors = append(errors, fmt.Sprintf("%s is required: set it to the store connection URL (mongodb:// or mongodb+srv://)", EnvStoreURL))
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.StoreURL) {
		errors = append(errors, fmt.Sprintf("%s must start with 'mongodb://' or 'mongodb+srv://', got: %s", EnvStoreURL, redactStoreURL(cfg.StoreURL)))
	}
	if cfg.StoreServiceRoleKey == "" {
		errors = append(errors, fmt.Sprintf("%s is required: privileged store operations (claiming slots, writing bookings) cannot run without it", EnvStoreServiceRoleKey))
	}
	if cfg.StoreDatabaseName == "" {
		errors = append(errors, "StoreDatabaseName cannot be empty")
	}

	if cfg.PublicBaseURL == "" {
		errors = append(errors, fmt.Sprintf("%s is required", EnvPublicBaseURL))
	} else if u, err := url.Parse(cfg.PublicBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("%s must be an absolute http(s) URL, got: %s", EnvPublicBaseURL, cfg.PublicBaseURL))
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("Timezone %q could not be loaded", cfg.Timezone))
	}
	if cfg.TeamCount < 1 || cfg.TeamCount > MaxTeamCount {
		errors = append(errors, fmt.Sprintf("TeamCount must be between 1 and %d, got: %d", MaxTeamCount, cfg.TeamCount))
	}
	if cfg.SchedulingHorizonDays < 1 || cfg.SchedulingHorizonDays > 365 {
		errors = append(errors, fmt.Sprintf("SchedulingHorizonDays must be between 1 and 365, got: %d", cfg.SchedulingHorizonDays))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"StoreConnTimeout", cfg.StoreConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.EventsEnabled && cfg.BookingEventsTopic == "" {
		errors = append(errors, "BookingEventsTopic cannot be empty when events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_url", redactStoreURL(cfg.StoreURL),
		"store_database", cfg.StoreDatabaseName,
		"store_conn_timeout", cfg.StoreConnTimeout,
		"store_anon_key_set", cfg.StoreAnonKey != "",
		"store_service_role_key_set", cfg.StoreServiceRoleKey != "",
		"public_base_url", cfg.PublicBaseURL,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"team_count", cfg.TeamCount,
		"scheduling_horizon_days", cfg.SchedulingHorizonDays,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"events_enabled", cfg.EventsEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
	)
}

// BookingURL is the public link a customer uses to view a booking.
func (cfg *Config) BookingURL(bookingNumber string) string {
	return cfg.PublicBaseURL + "/rezervacija/" + url.PathEscape(bookingNumber)
}

func redactStoreURL(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
