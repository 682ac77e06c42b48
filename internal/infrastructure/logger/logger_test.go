package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(Config{Level: "info", Format: "json", Service: "reconciler"}, &buf)
	log.Info().Msg("hello")

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Fatalf("expected json output to start with '{', got %q", output)
	}
	if !strings.Contains(output, `"service":"reconciler"`) {
		t.Fatalf("expected service field in output, got %q", output)
	}
	if !strings.Contains(output, `"message":"hello"`) {
		t.Fatalf("expected message in output, got %q", output)
	}
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(Config{Level: "debug", Format: "console"}, &buf)
	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output to contain message, got %q", buf.String())
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(Config{Level: "error", Format: "json"}, &buf)
	log.Info().Msg("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected info line to be filtered at error level, got %q", buf.String())
	}
}
