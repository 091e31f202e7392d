// Package docstore opens the remote document store selected by
// configuration.
package docstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/internal/docstore/firedoc"
	"github.com/mesh-intelligence/kanbaru/internal/docstore/redisdoc"
	"github.com/mesh-intelligence/kanbaru/internal/docstore/sqlitedoc"
	"github.com/mesh-intelligence/kanbaru/internal/docstore/tablesdoc"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Open returns the backend named by cfg.Backend. It returns (nil, nil) for
// the "none" backend; callers treat a nil Remote as "sync disabled".
// Connection failures wrap types.ErrRemote.
func Open(ctx context.Context, cfg types.RemoteConfig, logger *zap.Logger) (types.Remote, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		remote types.Remote
		err    error
	)
	switch cfg.Backend {
	case "", types.BackendNone:
		logger.Debug("remote disabled")
		return nil, nil
	case types.BackendSQLite:
		remote, err = sqlitedoc.Open(cfg.SQLite.Path)
	case types.BackendRedis:
		remote, err = redisdoc.Open(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
	case types.BackendAzTables:
		remote, err = tablesdoc.Open(ctx, cfg.AzTables.ConnectionString, cfg.AzTables.Table)
	case types.BackendFirestore:
		remote, err = firedoc.Open(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile, cfg.Firestore.CollectionPrefix)
	}
	if err != nil {
		logger.Warn("remote unavailable", zap.String("backend", cfg.Backend), zap.Error(err))
		return nil, fmt.Errorf("%w: opening %s backend: %w", types.ErrRemote, cfg.Backend, err)
	}
	logger.Info("remote opened", zap.String("backend", cfg.Backend))
	return remote, nil
}
