// Package logging builds the application logger. Events go to event.log in
// the data directory and, when enabled, to stderr as well.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// ParseLevel converts a config level name to a zap level. An empty name is
// info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w %q", types.ErrLogLevelUnknown, name)
	}
	return lvl, nil
}

// New opens logPath for appending and returns a logger writing to it. When
// cfg.Stderr is set, entries are also written to stderr. The returned
// closer syncs the logger and closes the file.
func New(cfg types.LogConfig, logPath string, stderr io.Writer) (*zap.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: creating log directory: %w", types.ErrIO, err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %w", types.ErrIO, logPath, err)
	}

	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(f), lvl)}
	if cfg.Stderr && stderr != nil {
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(stderr), lvl))
	}
	logger := zap.New(zapcore.NewTee(cores...))
	return logger, &closer{logger: logger, file: f}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " - "
	return cfg
}

type closer struct {
	logger *zap.Logger
	file   *os.File
}

func (c *closer) Close() error {
	_ = c.logger.Sync()
	return c.file.Close()
}
