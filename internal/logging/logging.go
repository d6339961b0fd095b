// Package logging builds the service's structured loggers. The bootstrap
// logger exists before the environment document is loaded; once it is, the
// logger is rebuilt from the document's logging settings.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// New creates a production-ready structured logger configured for JSON output.
func New() (*zap.Logger, error) {
	logger, err := baseConfig(zapcore.InfoLevel).Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// FromSettings rebuilds the logger according to the document's LOCAL_LOGLEVEL
// and LOG_DIR. A LOG_DIR still carrying the deployment placeholder is a fatal
// configuration error: the service must not create a directory literally
// named after the sentinel.
func FromSettings(doc *settings.Document) (*zap.Logger, error) {
	if doc.LogDir == settings.Sentinel {
		return nil, fmt.Errorf("LOG_DIR still carries the deployment placeholder %q", settings.Sentinel)
	}

	cfg := baseConfig(parseLevel(doc.LocalLoglevel))
	if doc.LogDir != "" {
		if err := os.MkdirAll(doc.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, filepath.Join(doc.LogDir, "studio-settings.log"))
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func baseConfig(level zapcore.Level) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false
	return cfg
}

// parseLevel maps the document's loglevel vocabulary onto zap levels.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "CRITICAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
