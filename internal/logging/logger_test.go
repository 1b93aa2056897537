package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{" warn ", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"info", log.InfoLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv(envLevel, "warn")
	t.Setenv(envPrefix, "tw ")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	lg.Info("hidden")
	lg.Warn("Detected type to inject", "type", "TerraWeave.Hooks")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "tw") || !strings.Contains(out, "TerraWeave.Hooks") {
		t.Errorf("unexpected output %q", out)
	}
	if err := lg.Close(); err != nil {
		t.Errorf("Close on a buffer: %v", err)
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv(envLevel, "debug")
	if !IsDebug() {
		t.Error("IsDebug = false with debug level")
	}
	t.Setenv(envLevel, "info")
	if IsDebug() {
		t.Error("IsDebug = true with info level")
	}
}
