package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	globalLogger   *slog.Logger
	logLevel       slog.Level
	tracingEnabled bool
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
)

// Config holds logging configuration, read from the environment.
type Config struct {
	Level          string // DEBUG, INFO, WARN, ERROR
	Format         string // json or text
	TracingEnabled bool
}

// Init initializes the global logger and tracer from environment variables.
func Init() error {
	return InitWithConfig(Config{
		Level:          getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:         getEnvOrDefault("LOG_FORMAT", "json"),
		TracingEnabled: getEnvOrDefault("LOG_TRACING_ENABLED", "true") == "true",
	})
}

// InitWithConfig initializes the logger and tracer with a specific configuration.
func InitWithConfig(config Config) error {
	logLevel = parseLogLevel(config.Level)
	tracingEnabled = config.TracingEnabled

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if config.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	if tracingEnabled {
		if err := initTracer(); err != nil {
			globalLogger.Warn("Failed to initialize OpenTelemetry tracer, tracing disabled", "error", err)
			tracingEnabled = false
		}
	}
	return nil
}

func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName("fx-signal-bot"),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return err
	}
	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer("fx-signal-bot")
	return nil
}

// Shutdown flushes and stops the tracer provider.
func Shutdown(ctx context.Context) error {
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// StartSpan starts a new OpenTelemetry span when tracing is enabled.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !tracingEnabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func traceAttrs(ctx context.Context) []any {
	if !tracingEnabled {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return []any{
		"trace_id", span.SpanContext().TraceID().String(),
		"span_id", span.SpanContext().SpanID().String(),
	}
}

func log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if globalLogger == nil {
		globalLogger = slog.Default()
	}
	if attrs := traceAttrs(ctx); attrs != nil {
		args = append(attrs, args...)
	}
	globalLogger.Log(ctx, level, msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) { log(ctx, slog.LevelDebug, msg, args...) }
func Info(ctx context.Context, msg string, args ...any)  { log(ctx, slog.LevelInfo, msg, args...) }
func Warn(ctx context.Context, msg string, args ...any)  { log(ctx, slog.LevelWarn, msg, args...) }
func Error(ctx context.Context, msg string, args ...any) { log(ctx, slog.LevelError, msg, args...) }

// ErrorWithErr logs an error message with an error object and records it
// on the active span.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	if tracingEnabled {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	log(ctx, slog.LevelError, msg, append([]any{"error", err}, args...)...)
}

// Signal logs a signal lifecycle event (always at info level) and mirrors
// it onto the active span.
func Signal(ctx context.Context, event, pair, direction string, fields ...any) {
	if tracingEnabled {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent(event, trace.WithAttributes(
				attribute.String("pair", pair),
				attribute.String("direction", direction),
			))
		}
	}
	allFields := append([]any{
		"type", "SIGNAL",
		"event", event,
		"pair", pair,
		"direction", direction,
	}, fields...)
	log(ctx, slog.LevelInfo, "Signal event", allFields...)
}
