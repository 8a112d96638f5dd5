package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-1:9092 , ,broker-2:9092")
	t.Setenv(EnvKafkaRequiredAcks, "LEADER")
	t.Setenv(EnvKafkaBatchTimeout, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "broker-1:9092" || cfg.Brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Brokers)
	}
	if cfg.RequiredAcks != AcksLeader {
		t.Errorf("expected acks %q, got %q", AcksLeader, cfg.RequiredAcks)
	}
	if cfg.BatchTimeout != DefaultBatchTimeout {
		t.Errorf("malformed duration should fall back to default, got %s", cfg.BatchTimeout)
	}
	if cfg.Compression != DefaultCompression || cfg.ClientID != DefaultClientID {
		t.Errorf("unexpected defaults: compression=%s client_id=%s", cfg.Compression, cfg.ClientID)
	}
}

func TestLoad_RejectsBadAcks(t *testing.T) {
	t.Setenv(EnvKafkaRequiredAcks, "2")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Brokers:      []string{"localhost:9092"},
			MaxAttempts:  3,
			BatchTimeout: DefaultBatchTimeout,
			WriteTimeout: time.Second,
			RequiredAcks: AcksAll,
			Compression:  "snappy",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no brokers", mutate: func(c *Config) { c.Brokers = nil }, wantErr: "broker"},
		{name: "bad compression", mutate: func(c *Config) { c.Compression = "brotli" }, wantErr: "Compression"},
		{name: "bad acks", mutate: func(c *Config) { c.RequiredAcks = "some" }, wantErr: "RequiredAcks"},
		{name: "zero attempts", mutate: func(c *Config) { c.MaxAttempts = 0 }, wantErr: "MaxAttempts"},
		{name: "zero write timeout", mutate: func(c *Config) { c.WriteTimeout = 0 }, wantErr: "WriteTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
