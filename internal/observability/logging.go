// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger is the structured logger used throughout the application.
var Logger = NewLogger(os.Stdout, "info", "development")

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys picked up by the context-aware handler.
const (
	RequestIDKey     LogContextKey = "request_id"
	UserIDKey        LogContextKey = "user_id"
	TraceIDKey       LogContextKey = "trace_id"
	CorrelationIDKey LogContextKey = "correlation_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range []LogContextKey{RequestIDKey, UserIDKey, TraceIDKey, CorrelationIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewLogger builds a JSON logger for production and a text logger elsewhere.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level, env string) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(&ctxHandler{handler})
}

// InitLogger replaces the package logger and the slog default.
func InitLogger(level, env string) {
	Logger = NewLogger(os.Stdout, level, env)
	slog.SetDefault(Logger)
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// ActionLogger provides structured logging for optimistic social actions.
type ActionLogger struct {
	action string
	logger *slog.Logger
}

// NewActionLogger creates an ActionLogger for the given action ("like", "follow", "comment").
func NewActionLogger(action string) *ActionLogger {
	return &ActionLogger{action: action}
}

func (l *ActionLogger) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return Logger
}

// WithLogger returns a copy of l writing to logger.
func (l *ActionLogger) WithLogger(logger *slog.Logger) *ActionLogger {
	return &ActionLogger{action: l.action, logger: logger}
}

// LogStarted logs an optimistic change that has been applied locally.
func (l *ActionLogger) LogStarted(ctx context.Context, target string, seq uint64) {
	l.log().DebugContext(ctx, "social action started",
		slog.String("action", l.action),
		slog.String("target", target),
		slog.Uint64("seq", seq),
	)
}

// LogOutcome logs how an optimistic change was reconciled.
func (l *ActionLogger) LogOutcome(ctx context.Context, target string, seq uint64, outcome string, err error) {
	attrs := []any{
		slog.String("action", l.action),
		slog.String("target", target),
		slog.Uint64("seq", seq),
		slog.String("outcome", outcome),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.log().WarnContext(ctx, "social action reconciled", attrs...)
		return
	}
	l.log().InfoContext(ctx, "social action reconciled", attrs...)
}

// LogError logs a failed non-optimistic operation.
func (l *ActionLogger) LogError(ctx context.Context, target string, err error) {
	l.log().ErrorContext(ctx, "social action failed",
		slog.String("action", l.action),
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
}
