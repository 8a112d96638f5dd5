package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_JSONWithServiceAndOperation(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: DEBUG, Format: JSON, Output: &buf, Service: "bookings"})

	log.Op("claim_slot").Info("slot claimed", "team_number", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry[SERVICE] != "bookings" {
		t.Errorf("expected service attribute, got %v", entry[SERVICE])
	}
	if entry[OPERATION] != "claim_slot" {
		t.Errorf("expected operation attribute, got %v", entry[OPERATION])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Output: &buf})

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}

	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn should be written at warn level")
	}
}
