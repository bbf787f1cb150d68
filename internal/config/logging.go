package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel is the logging verbosity. Refresh failures soft-fail and are
// surfaced only through the log, so the error level is the diagnosis
// channel for balance queries the user never sees break.
type LogLevel uint8

// Verbosity levels, quietest first.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelDebug
)

// ParseLogLevel maps a config or env value to a LogLevel. Unknown values
// mean LogLevelError: a typo should not silence failure diagnostics.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "off", "none":
		return LogLevelOff
	default:
		return LogLevelError
	}
}

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// Logger appends timestamped lines to a log file. Log output never goes to
// stdout or stderr, so text and JSON command output stay parseable.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	sink  io.WriteCloser
}

// NewLogger opens the log file for appending, creating its directory when
// missing. A leading ~/ expands to the user's home. With LogLevelOff or an
// empty path every log call is a no-op.
func NewLogger(level LogLevel, path string) (*Logger, error) {
	if level == LogLevelOff || path == "" {
		return NullLogger(), nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[2:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	sink, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &Logger{level: level, sink: sink}, nil
}

// NullLogger returns a logger that discards everything.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff}
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) {
	l.emit(LogLevelDebug, format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	l.emit(LogLevelError, format, args...)
}

// Level returns the configured verbosity.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

func (l *Logger) emit(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil || level > l.level {
		return
	}

	_, _ = fmt.Fprintf(l.sink, "%s %s %s\n",
		time.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		strings.ToUpper(level.String()),
		fmt.Sprintf(format, args...))
}
