package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)

	if logger == nil {
		t.Fatal("Expected non-nil logger")
	}

	if logger.minLevel != LevelInfo {
		t.Errorf("Expected minLevel to be %s, got %s", LevelInfo, logger.minLevel)
	}

	if logger.format != FormatJSON {
		t.Errorf("Expected default format json, got %s", logger.format)
	}
}

func TestLogger_ShouldLog(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		logLevel Level
		want     bool
	}{
		{"debug logs when min is debug", LevelDebug, LevelDebug, true},
		{"info logs when min is debug", LevelDebug, LevelInfo, true},
		{"error logs when min is debug", LevelDebug, LevelError, true},
		{"debug does not log when min is info", LevelInfo, LevelDebug, false},
		{"warn logs when min is info", LevelInfo, LevelWarn, true},
		{"info does not log when min is warn", LevelWarn, LevelInfo, false},
		{"info does not log when min is error", LevelError, LevelInfo, false},
		{"error logs when min is error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.minLevel)
			if got := logger.shouldLog(tt.logLevel); got != tt.want {
				t.Errorf("shouldLog() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_Log(t *testing.T) {
	// Redirect stderr to capture logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	logger := NewLogger(LevelInfo)
	logger.Log(LevelWarn, "test.event", "Test message", map[string]interface{}{
		"key": "value",
		"num": 42,
	})

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)

	var event Event
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if event.Level != LevelWarn {
		t.Errorf("Expected level %s, got %s", LevelWarn, event.Level)
	}
	if event.Type != "test.event" {
		t.Errorf("Expected type 'test.event', got %s", event.Type)
	}
	if event.Message != "Test message" {
		t.Errorf("Expected message 'Test message', got %s", event.Message)
	}
	if event.Payload["key"] != "value" {
		t.Errorf("Expected payload key 'key' to be 'value', got %v", event.Payload["key"])
	}
	if event.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}

func TestWriterLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LevelDebug, FormatText, &buf)

	logger.Warn("op.compat.ampere", "On Ampere and higher architectures please use CUDA 11+", map[string]interface{}{
		"installed_toolkit_major": 10,
		"bound_toolkit_major":     11,
	})

	out := buf.String()
	if !strings.Contains(out, "WARN  op.compat.ampere: On Ampere") {
		t.Errorf("Unexpected text line: %q", out)
	}
	// Payload keys are sorted
	if strings.Index(out, "bound_toolkit_major=11") > strings.Index(out, "installed_toolkit_major=10") {
		t.Errorf("Expected payload keys in sorted order, got %q", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LevelWarn, FormatJSON, &buf)

	logger.Info("test.filtered", "Should not appear", nil)

	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("Expected no output for filtered log, got: %s", buf.String())
	}
}

func TestLogger_NilIsSilent(t *testing.T) {
	var logger *Logger
	// Must not panic
	logger.Warn("test.nil", "nothing", nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "app", "test.log")
	logger, err := NewFileLogger(LevelInfo, logPath)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestFileLogger_Append(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger1, err := NewFileLogger(LevelInfo, logPath)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}
	logger1.Info("test.first", "First message", nil)
	if closeErr := logger1.Close(); closeErr != nil {
		t.Fatalf("Failed to close logger: %v", closeErr)
	}

	logger2, err := NewFileLogger(LevelInfo, logPath)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}
	logger2.Info("test.second", "Second message", nil)
	if closeErr := logger2.Close(); closeErr != nil {
		t.Fatalf("Failed to close logger: %v", closeErr)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "test.first") {
		t.Error("First event was not found")
	}
	if !strings.Contains(string(content), "test.second") {
		t.Error("Second event was not appended")
	}
}
