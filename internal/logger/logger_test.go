package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"fatal", FatalLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, WarnLevel)

	log.Info("hidden %d", 1)
	log.Warn("shown %d", 2)
	log.Error("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") || !strings.Contains(out, "[ERROR] shown 3") {
		t.Errorf("missing expected lines, got %q", out)
	}

	log.SetLevel(DebugLevel)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("debug message missing after SetLevel, got %q", buf.String())
	}
}

func TestNewLoggerRejectsUnknownOutput(t *testing.T) {
	if _, err := NewLogger(LogConfig{Output: "stdout"}); err == nil {
		t.Fatal("expected error for unsupported output")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := t.TempDir() + "/nested/test.log"
	log, err := NewLogger(LogConfig{Output: "file", FilePath: path, Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug("written")
}
