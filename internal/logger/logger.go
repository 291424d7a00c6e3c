// Package logger builds the zap loggers used by sieve binaries and carries
// request-scoped loggers through contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/sieve/internal/version"
)

// Field keys shared by every component.
const (
	KeyComponent = "component"
	KeyVersion   = "version"
	KeyDataset   = "dataset"
	KeyRequestID = "request_id"
)

// New creates a zap logger for env tagged with the component name and the
// build version. prod writes JSON, local/dev/docker write console output.
// A non-empty level (debug, info, warn, error) overrides the env default.
func New(env, component, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String(KeyComponent, component), zap.String(KeyVersion, version.Version)), nil
}

// Dataset is the field identifying the dataset a log line is about.
func Dataset(name string) zap.Field { return zap.String(KeyDataset, name) }

// RequestID is the field carrying the HTTP request id.
func RequestID(id string) zap.Field { return zap.String(KeyRequestID, id) }
