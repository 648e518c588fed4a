package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level is a log severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Logger is the interface for logging operations
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
	Fatal(format string, v ...any)
	SetLevel(level Level)
}

// LogConfig holds configuration for the logger. Empty fields fall back to
// LOG_OUTPUT, LOG_LEVEL and LOG_FILE_PATH.
type LogConfig struct {
	// Output is "file" or "stderr"
	Output   string
	Level    string
	FilePath string
}

type standardLogger struct {
	logger *log.Logger
	level  Level
}

// NewLogger creates a new logger based on the provided configuration
func NewLogger(config LogConfig) (Logger, error) {
	writer, err := openOutput(firstNonEmpty(config.Output, os.Getenv("LOG_OUTPUT"), detectEnvironment()),
		firstNonEmpty(config.FilePath, os.Getenv("LOG_FILE_PATH")))
	if err != nil {
		return nil, err
	}

	return &standardLogger{
		logger: log.New(writer, "", log.LstdFlags),
		level:  ParseLevel(firstNonEmpty(config.Level, os.Getenv("LOG_LEVEL"), "info")),
	}, nil
}

// NewWriterLogger logs to w at the given level.
func NewWriterLogger(w io.Writer, level Level) Logger {
	return &standardLogger{logger: log.New(w, "", 0), level: level}
}

// NewNoOpLogger creates a logger that discards all output (useful for tests)
func NewNoOpLogger() Logger {
	return NewWriterLogger(io.Discard, FatalLevel)
}

func openOutput(output, filePath string) (io.Writer, error) {
	switch output {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if filePath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			filePath = filepath.Join(homeDir, ".assessa-mcp", "assessa.log")
		}
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("invalid log output: %s (expected 'file' or 'stderr')", output)
	}
}

// detectEnvironment picks stderr inside containers and a log file elsewhere.
// The MCP stdio transport owns stdout, so stdout is never an option.
func detectEnvironment() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "stderr"
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "stderr"
	}
	return "file"
}

// ParseLevel converts a level name to a Level, defaulting to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (l *standardLogger) SetLevel(level Level) {
	l.level = level
}

func (l *standardLogger) Debug(format string, v ...any) { l.logf(DebugLevel, format, v...) }
func (l *standardLogger) Info(format string, v ...any)  { l.logf(InfoLevel, format, v...) }
func (l *standardLogger) Warn(format string, v ...any)  { l.logf(WarnLevel, format, v...) }
func (l *standardLogger) Error(format string, v ...any) { l.logf(ErrorLevel, format, v...) }

// Fatal logs a fatal message and exits
func (l *standardLogger) Fatal(format string, v ...any) {
	l.logger.Printf("[%s] %s", FatalLevel, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func (l *standardLogger) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}
