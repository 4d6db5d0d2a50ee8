package logging

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Log encodings.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Config controls logger construction.
type Config struct {
	// Component is attached to every entry as the "component" field.
	Component string

	// Environment is attached as "environment". "development" switches the
	// default encoding to console.
	Environment string

	// Level is debug, info, warn or error. Unknown values mean info.
	Level string

	// Encoding is json or console. Empty picks from Environment.
	Encoding string

	// OutputPath is stdout, stderr or a file path. Empty means stderr so
	// command output on stdout stays machine-readable.
	OutputPath string
}

// ConfigFromEnv builds a Config for component from STOREFRONT_ENVIRONMENT,
// STOREFRONT_LOG_LEVEL and STOREFRONT_LOG_ENCODING.
func ConfigFromEnv(component string) Config {
	return Config{
		Component:   component,
		Environment: os.Getenv("STOREFRONT_ENVIRONMENT"),
		Level:       os.Getenv("STOREFRONT_LOG_LEVEL"),
		Encoding:    os.Getenv("STOREFRONT_LOG_ENCODING"),
	}
}

func (c Config) withDefaults() Config {
	if c.Component == "" {
		c.Component = "storefront-client"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.OutputPath == "" {
		c.OutputPath = "stderr"
	}
	if c.Encoding == "" {
		c.Encoding = EncodingJSON
		if strings.EqualFold(c.Environment, "development") {
			c.Encoding = EncodingConsole
		}
	}
	return c
}

// level parses Level, treating "warning" as warn and anything unknown as info.
func (c Config) level() zapcore.Level {
	text := strings.ToLower(strings.TrimSpace(c.Level))
	if text == "warning" {
		text = "warn"
	}
	lvl, err := zapcore.ParseLevel(text)
	if err != nil || lvl < zapcore.DebugLevel || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}

func (c Config) encoder() zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if c.Encoding == EncodingConsole {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}
