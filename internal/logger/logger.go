// Package logger provides a process-wide file logger for the CLI.
//
// The terminal belongs to the UI while views are mounted, so log output never goes to
// stdout/stderr. When no log file is configured, records are discarded.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel is the minimum severity that gets written.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var (
	mu      sync.RWMutex
	current = slog.New(slog.NewTextHandler(io.Discard, nil))
	file    *os.File
)

// ParseLevel converts a config string to a LogLevel, defaulting to warning.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelWarning
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Init opens path for appending and routes all log calls to it.
// An empty path keeps logging disabled.
func Init(path string, level LogLevel) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	if strings.TrimSpace(path) == "" {
		current = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	file = f
	current = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level.slogLevel()}))
	return nil
}

// InitWriter routes log output to w. Used by tests.
func InitWriter(w io.Writer, level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	current = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()}))
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	current = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func closeLocked() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

func log(level slog.Level, format string, args ...any) {
	mu.RLock()
	l := current
	mu.RUnlock()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func Debug(format string, args ...any) {
	log(slog.LevelDebug, format, args...)
}

// Info logs at info level.
func Info(format string, args ...any) {
	log(slog.LevelInfo, format, args...)
}

// Warning logs at warning level.
func Warning(format string, args ...any) {
	log(slog.LevelWarn, format, args...)
}

// Error logs at error level.
func Error(format string, args ...any) {
	log(slog.LevelError, format, args...)
}

// ErrorWithErr logs at error level with the error attached as an attribute.
func ErrorWithErr(err error, format string, args ...any) {
	mu.RLock()
	l := current
	mu.RUnlock()
	if !l.Enabled(context.Background(), slog.LevelError) {
		return
	}
	l.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}
