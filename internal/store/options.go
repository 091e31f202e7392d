package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRemote sets the remote document store used by Push, Pull and
// DeleteAccount.
func WithRemote(remote types.Remote) Option {
	return func(s *Store) {
		s.remote = remote
	}
}

// WithCardScope sets where card titles must be unique.
func WithCardScope(scope types.CardScope) Option {
	return func(s *Store) {
		s.scope = scope
	}
}

// WithClock sets the clock used for new card dates and times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWriteHook registers fn to run after every successful board, list or
// card mutation, outside the store lock. It receives a copy of the
// committed snapshot.
func WithWriteHook(fn func(types.Snapshot)) Option {
	return func(s *Store) {
		s.onWrite = fn
	}
}
