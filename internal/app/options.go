package app

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/internal/auth"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger      *zap.Logger
	remote      types.Remote
	stderr      io.Writer
	now         func() time.Time
	authOptions []auth.Option
}

// WithLogger sets the logger instead of opening event.log
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithRemote sets the remote document store instead of opening the
// configured backend
func WithRemote(remote types.Remote) Option {
	return func(cfg *appConfig) {
		cfg.remote = remote
	}
}

// WithStderr sets where log entries are teed when log.stderr is enabled
func WithStderr(w io.Writer) Option {
	return func(cfg *appConfig) {
		cfg.stderr = w
	}
}

// WithClock sets the clock used for new cards
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.now = now
	}
}

// WithAuthOptions passes options through to the auth service
func WithAuthOptions(opts ...auth.Option) Option {
	return func(cfg *appConfig) {
		cfg.authOptions = append(cfg.authOptions, opts...)
	}
}
