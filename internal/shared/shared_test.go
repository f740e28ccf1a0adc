package shared

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("nil writer falls back to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("child logger carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "slug", "trending-movies")
		logger.Info("syncing")

		if !strings.Contains(buf.String(), "trending-movies") {
			t.Errorf("expected child logger field in output, got %q", buf.String())
		}
	})

	t.Run("level filters output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("quiet")

		if buf.Len() != 0 {
			t.Errorf("expected no output below error level, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", id, err)
	}

	if GenerateID() == id {
		t.Error("expected distinct ids across calls")
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := hex.DecodeString(state)
	if err != nil {
		t.Fatalf("expected hex-encoded state, got %q: %v", state, err)
	}
	if len(raw) != 16 {
		t.Errorf("expected 16 random bytes, got %d", len(raw))
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]int{"count": 3}

	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(payload, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(data), "\n") {
			t.Errorf("expected compact output, got %q", data)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(payload, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n") {
			t.Errorf("expected indented output, got %q", data)
		}

		var decoded map[string]int
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output not valid JSON: %v", err)
		}
		if decoded["count"] != 3 {
			t.Errorf("expected count 3, got %d", decoded["count"])
		}
	})
}
