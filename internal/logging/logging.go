// Package logging builds the zap logger.
//
// The TUI owns the terminal, so logs only ever go to a file. With no file
// configured the logger discards everything.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to path, and a cleanup that flushes it.
func New(path string, debug bool) (*zap.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error { return log.Sync() }
	return log, cleanup, nil
}
