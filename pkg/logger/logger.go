// Package logger provides the service-wide structured logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the HTTP middleware, so
// every line written while handling a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("category deactivated", "category_id", id, "products_affected", n)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shashiranjanraj/catalogue/config"
)

var L *slog.Logger

func init() {
	L = slog.New(newHandler(os.Stdout, parseLevel(config.LogLevel())))
	slog.SetDefault(L)
}

// Setup rebuilds L from configuration. LOG_FILE adds a rotated file output and
// LOG_MONGO_URI fans records out to MongoDB as well. The returned func flushes
// and closes the extra sinks.
func Setup() (func(), error) {
	level := parseLevel(config.LogLevel())

	var out io.Writer = os.Stdout
	var rotator *lumberjack.Logger
	if path := config.LogFile(); path != "" {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}

	handler := newHandler(out, level)

	var mongo *MongoHandler
	if uri := config.LogMongoURI(); uri != "" {
		h, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection(), level)
		if err != nil {
			return func() {}, err
		}
		mongo = h
		handler = NewMultiHandler(handler, mongo)
	}

	L = slog.New(handler)
	slog.SetDefault(L)

	return func() {
		if mongo != nil {
			mongo.Close()
		}
		if rotator != nil {
			_ = rotator.Close()
		}
	}, nil
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if config.IsProduction() {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFor picks the access-log level for an HTTP status.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	WithCtx(ctx).DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	WithCtx(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	WithCtx(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithCtx(ctx).ErrorContext(ctx, msg, args...)
}
