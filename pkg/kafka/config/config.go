package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"cleanbook/pkg/logger"
)

// Config is the producer side of the booking event stream. Topics live in the
// application config; this only describes how to reach and write to the cluster.
type Config struct {
	Brokers  []string
	ClientID string

	MaxAttempts  int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	RequiredAcks string
	Compression  string
	Async        bool

	LogMessages bool
}

func Load() (*Config, error) {
	var brokers []string
	for _, b := range strings.Split(env(EnvKafkaBrokers, DefaultBrokers, parseString), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	cfg := &Config{
		Brokers:      brokers,
		ClientID:     env(EnvKafkaClientID, DefaultClientID, parseString),
		MaxAttempts:  env(EnvKafkaMaxAttempts, DefaultMaxAttempts, strconv.Atoi),
		BatchTimeout: env(EnvKafkaBatchTimeout, DefaultBatchTimeout, time.ParseDuration),
		WriteTimeout: env(EnvKafkaWriteTimeout, DefaultWriteTimeout, time.ParseDuration),
		RequiredAcks: strings.ToLower(env(EnvKafkaRequiredAcks, DefaultRequiredAcks, parseString)),
		Compression:  strings.ToLower(env(EnvKafkaCompression, DefaultCompression, parseString)),
		Async:        env(EnvKafkaAsync, DefaultAsync, strconv.ParseBool),
		LogMessages:  env(EnvKafkaLogMessages, DefaultLogMessages, strconv.ParseBool),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once so a misconfigured deployment fails with the full list.
func (cfg *Config) Validate() error {
	var errs []error

	if len(cfg.Brokers) == 0 {
		errs = append(errs, errors.New("at least one Kafka broker is required"))
	}
	if cfg.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("MaxAttempts must be positive, got: %d", cfg.MaxAttempts))
	}
	if cfg.BatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BatchTimeout must be positive, got: %s", cfg.BatchTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if !slices.Contains(compressions, cfg.Compression) {
		errs = append(errs, fmt.Errorf("Compression must be one of %v, got: %s", compressions, cfg.Compression))
	}
	switch cfg.RequiredAcks {
	case AcksAll, AcksLeader, AcksNone:
	default:
		errs = append(errs, fmt.Errorf("RequiredAcks must be one of [all leader none], got: %s", cfg.RequiredAcks))
	}

	if len(errs) > 0 {
		return fmt.Errorf("kafka configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"max_attempts", cfg.MaxAttempts,
		"batch_timeout", cfg.BatchTimeout,
		"write_timeout", cfg.WriteTimeout,
		"required_acks", cfg.RequiredAcks,
		"compression", cfg.Compression,
		"async", cfg.Async,
		"log_messages", cfg.LogMessages,
	)
}

func parseString(s string) (string, error) { return s, nil }

// env reads key and parses it, keeping fallback when the variable is unset or malformed.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}
