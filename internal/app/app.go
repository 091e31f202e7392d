// Package app wires the store, remote document store, sync worker, auth
// service and logger together and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/internal/auth"
	"github.com/mesh-intelligence/kanbaru/internal/docstore"
	"github.com/mesh-intelligence/kanbaru/internal/logging"
	"github.com/mesh-intelligence/kanbaru/internal/paths"
	"github.com/mesh-intelligence/kanbaru/internal/store"
	"github.com/mesh-intelligence/kanbaru/internal/syncer"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// App holds all application services and provides dependency injection.
type App struct {
	Config  types.Config
	DataDir string
	Logger  *zap.Logger

	Store  *store.Store
	Syncer *syncer.Syncer
	Auth   *auth.Service

	remote    types.Remote
	logCloser io.Closer

	mu       sync.Mutex
	autoJobs []*syncer.Job
	closed   bool
}

// New builds the application for dataDir and loads the local database.
// A remote backend that cannot be reached does not stop local work; every
// remote operation then fails with the connection error.
func New(ctx context.Context, cfg types.Config, dataDir string, opts ...Option) (*App, error) {
	var ac appConfig
	for _, opt := range opts {
		opt(&ac)
	}
	if ac.stderr == nil {
		ac.stderr = os.Stderr
	}

	scope, err := types.ParseCardScope(cfg.CardScope)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DataDir: dataDir}

	a.Logger = ac.logger
	if a.Logger == nil {
		logger, closer, err := logging.New(cfg.Log, paths.EventLogPath(dataDir), ac.stderr)
		if err != nil {
			return nil, err
		}
		a.Logger, a.logCloser = logger, closer
	}

	a.remote = ac.remote
	if a.remote == nil {
		remote, err := docstore.Open(ctx, cfg.Remote, a.Logger)
		switch {
		case errors.Is(err, types.ErrRemote):
			remote = unavailable{err: err}
		case err != nil:
			a.closeLog()
			return nil, err
		}
		a.remote = remote
	}

	storeOpts := []store.Option{
		store.WithLogger(a.Logger.Named("store")),
		store.WithCardScope(scope),
		store.WithClock(ac.now),
	}
	if a.remote != nil {
		storeOpts = append(storeOpts, store.WithRemote(a.remote))
	}
	if cfg.Sync.AutoPush && a.remote != nil {
		storeOpts = append(storeOpts, store.WithWriteHook(a.autoPush))
	}
	a.Store = store.New(paths.DatabasePath(dataDir), storeOpts...)
	a.Syncer = syncer.New(a.Store,
		syncer.WithLogger(a.Logger.Named("sync")),
		syncer.WithTimeout(cfg.Sync.Timeout))
	a.Auth = auth.New(a.remote, append([]auth.Option{auth.WithLogger(a.Logger.Named("auth"))}, ac.authOptions...)...)

	a.Logger.Info("starting kanbaru",
		zap.String("data_dir", dataDir),
		zap.String("card_scope", string(scope)),
		zap.String("remote", cfg.Remote.Backend))
	if err := a.Store.Read(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// RemoteEnabled reports whether a remote backend is configured.
func (a *App) RemoteEnabled() bool {
	return a.remote != nil
}

// WaitPending blocks until every auto-push started so far has finished and
// returns the first failure.
func (a *App) WaitPending(ctx context.Context) error {
	a.mu.Lock()
	jobs := a.autoJobs
	a.autoJobs = nil
	a.mu.Unlock()

	var first error
	for _, job := range jobs {
		st, err := job.Wait(ctx)
		if st.State == syncer.StateCanceled {
			continue
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close stops the sync worker and releases the remote and the log file.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	var errs []error
	if a.Syncer != nil {
		errs = append(errs, a.Syncer.Close())
	}
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	a.Logger.Info("stopping kanbaru")
	errs = append(errs, a.closeLog())
	return errors.Join(errs...)
}

func (a *App) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// autoPush runs after each successful mutation when sync.auto_push is on.
func (a *App) autoPush(snap types.Snapshot) {
	username := snap.Credentials.Username
	if username == "" {
		return
	}
	job := a.Syncer.Push(context.Background(), username)
	a.mu.Lock()
	a.autoJobs = append(a.autoJobs, job)
	a.mu.Unlock()
}

// unavailable stands in for a remote that failed to open.
type unavailable struct {
	err error
}

func (u unavailable) Put(context.Context, string, string, []byte) error { return u.err }

func (u unavailable) Get(context.Context, string, string) ([]byte, error) {
	return nil, u.err
}

func (u unavailable) Delete(context.Context, string, string) error { return u.err }

func (u unavailable) Close() error { return nil }

var _ types.Remote = unavailable{}

