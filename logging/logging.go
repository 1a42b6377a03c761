// Package logging builds the zap loggers used by the server and CLI.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName tags every log line written by uwazi.
const ServiceName = "uwazi"

// ParseLevel maps "debug", "info", "warn" and "error" to a zap level. Anything
// else is info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger. format "console" gives human-readable development
// output; anything else gives JSON on stdout with ISO8601 timestamps.
// service and the hostname are attached to every entry.
func New(level, format, service string) (*zap.Logger, error) {
	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	if service != "" {
		logger = logger.With(zap.String("service_name", service))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		logger = logger.With(zap.String("hostname", hostname))
	}
	return logger, nil
}
