package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: DEBUG, Output: &buf, Service: "bookings"})

	log.Debug("slot checked", "date", "2025-03-03")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry[SERVICE] != "bookings" {
		t.Errorf("expected service attribute, got %v", entry[SERVICE])
	}
	if entry["date"] != "2025-03-03" {
		t.Errorf("expected date attribute, got %v", entry["date"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Output: &buf})

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}

	log.Warn("shown")
	if buf.Len() == 0 {
		t.Fatal("expected warn to be written")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("request_id", "abc")
	log.Info("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"abc"`)) {
		t.Errorf("expected request_id attribute, got %q", buf.String())
	}
}
