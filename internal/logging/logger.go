// Package logging builds the zap loggers used across the storefront client
// and masks credentials before they reach a log line.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap.Logger that remembers its Config.
type Logger struct {
	*zap.Logger
	config Config
}

// New opens cfg.OutputPath and builds a Logger writing to it.
func New(cfg Config) (*Logger, error) {
	cfg = cfg.withDefaults()

	var w io.Writer
	switch cfg.OutputPath {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		w = f
	}

	return NewWithWriter(cfg, w), nil
}

// NewWithWriter builds a Logger writing to w. cfg.OutputPath is ignored.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	cfg = cfg.withDefaults()

	core := zapcore.NewCore(cfg.encoder(), zapcore.AddSync(w), cfg.level())
	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("component", cfg.Component),
			zap.String("environment", cfg.Environment),
		),
	)
	return &Logger{Logger: logger, config: cfg}
}

// Config returns the effective configuration.
func (l *Logger) Config() Config {
	return l.config
}

// WithContext adds trace_id and span_id when ctx carries a valid span.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	return FromContext(l.Logger, ctx)
}

// FromContext is WithContext for a bare *zap.Logger.
func FromContext(base *zap.Logger, ctx context.Context) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return base
	}
	return base.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// WithCustomerID scopes the logger to one customer's basket.
func (l *Logger) WithCustomerID(customerID string) *zap.Logger {
	if customerID == "" {
		return l.Logger.With(zap.Bool("anonymous", true))
	}
	return l.Logger.With(zap.String("customer_id", customerID))
}
