// Package logging configures the process-wide structured logger.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zerolog.Nop()
)

// Init routes log output to logPath (JSON lines, appended) and, when debug is
// set, to a human readable console writer on stderr. With neither, output is
// discarded so an interactive terminal UI keeps the screen.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		logger = zerolog.Nop()
		return nil
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return nil
}

// Close flushes and releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.Nop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the current logger for callers that want structured fields.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func LogEvent(format string, args ...any) {
	l := Logger()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

func LogWarn(format string, args ...any) {
	l := Logger()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

// LogRequest records one provider exchange at debug level. Nothing is
// formatted unless debug output is enabled.
func LogRequest(direction, provider, algorithm, operation string, payload any) {
	l := Logger()
	event := l.Debug()
	if !event.Enabled() {
		return
	}
	event.
		Str("direction", strings.ToUpper(strings.TrimSpace(direction))).
		Str("operation", operation).
		Msg(buildRequestMessage(direction, provider, algorithm, operation, payload))
}

func buildRequestMessage(direction, provider, algorithm, operation string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	providerValue := strings.TrimSpace(provider)
	if providerValue == "" {
		providerValue = "unknown"
	}
	algorithmValue := strings.TrimSpace(algorithm)
	if algorithmValue == "" {
		algorithmValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("provider=%s", providerValue))
	parts = append(parts, fmt.Sprintf("algorithm=%s", algorithmValue))
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, fmt.Sprintf("op=%s", operation))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
