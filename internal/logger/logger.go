// Package logger builds the zap loggers used across the service.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger for env "dev" (or empty) and a JSON
// production logger otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewFile returns a JSON logger that appends to path, creating parent
// directories as needed.  Used for the booking audit log written by the
// queue consumer.
func NewFile(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "logged_at"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	return cfg.Build()
}
