// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	GlobalLogger = NewLogger("info")
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	CorrelationID LogContextKey = "correlation_id"
	RequestUserID LogContextKey = "request_user_id"
)

// ctxHandler decorates records with request-scoped values from the context.
type ctxHandler struct {
	slog.Handler
}

func (h ctxHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := ctx.Value(CorrelationID).(string); ok && id != "" {
		record.AddAttrs(slog.String("correlation_id", id))
	}
	if uid, ok := ctx.Value(RequestUserID).(uint); ok && uid != 0 {
		record.AddAttrs(slog.Uint64("user_id", uint64(uid)))
	}
	return h.Handler.Handle(ctx, record)
}

func (h ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ctxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ctxHandler) WithGroup(name string) slog.Handler {
	return ctxHandler{Handler: h.Handler.WithGroup(name)}
}

// NewLogger builds a JSON logger at the given level.
func NewLogger(level string) *Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := ctxHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})}
	return &Logger{Logger: slog.New(handler)}
}

// InitLogger replaces the global logger and installs it as the slog default.
func InitLogger(level string) {
	GlobalLogger = NewLogger(level)
	slog.SetDefault(GlobalLogger.Logger)
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a new context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, RequestUserID, userID)
}
