// Package logger provides structured logging for lexcura.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger is the logging surface components depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger *SlogLogger
)

func init() {
	globalLogger = &SlogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))}
}

// NewLogger builds a logger writing to stderr.
func NewLogger(debug bool, format string) *SlogLogger {
	return NewLoggerWithWriter(os.Stderr, debug, format)
}

// NewLoggerWithWriter builds a logger writing to w.
func NewLoggerWithWriter(w io.Writer, debug bool, format string) *SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &SlogLogger{l: slog.New(handler)}
}

// SetupLogger configures the global logger.
func SetupLogger(debug bool, format string) {
	l := NewLogger(debug, format)

	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()

	slog.SetDefault(l.l)
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Slog exposes the underlying *slog.Logger.
func (s *SlogLogger) Slog() *slog.Logger {
	return s.l
}

// Debug logs a debug message.
func (s *SlogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }

// Info logs an info message.
func (s *SlogLogger) Info(msg string, args ...any) { s.l.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogLogger) Warn(msg string, args ...any) { s.l.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// With returns a logger carrying additional attributes.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

// WithGroup returns a logger that nests attributes under name.
func (s *SlogLogger) WithGroup(name string) Logger {
	return &SlogLogger{l: s.l.WithGroup(name)}
}

// WithContext returns a logger tagged with the request id stored in ctx, if any.
func WithContext(ctx context.Context) Logger {
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
		return GetGlobalLogger().With("request_id", id)
	}
	return GetGlobalLogger()
}

// RequestIDKey is the context key carrying a request id.
type RequestIDKey struct{}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	GetGlobalLogger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	GetGlobalLogger().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	GetGlobalLogger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	GetGlobalLogger().Error(msg, args...)
}

// WithClient returns a logger with client context.
func WithClient(clientID string) Logger {
	return GetGlobalLogger().With("client_id", clientID)
}
