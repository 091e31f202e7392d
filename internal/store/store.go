// Package store holds the in-memory board graph and keeps it in step with
// the local database file and, on request, the remote board document.
//
// Every mutation works on a clone of the graph. The clone is encoded and
// written to disk first; only a successful write makes it the current graph.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/internal/codec"
	"github.com/mesh-intelligence/kanbaru/internal/localfile"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Store is the board graph plus the credentials of the current user.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	snap types.Snapshot

	logger  *zap.Logger
	remote  types.Remote
	scope   types.CardScope
	now     func() time.Time
	onWrite func(types.Snapshot)

	writeFile func(path string, data []byte) error
}

// New creates a store backed by the file at path. The store starts empty;
// call Read to load the file.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		logger:    zap.NewNop(),
		scope:     types.ScopeStore,
		now:       time.Now,
		writeFile: localfile.WriteAtomic,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPath changes the file used by Read and Write.
func (s *Store) SetPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// Path returns the file used by Read and Write.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Scope returns the card title uniqueness scope.
func (s *Store) Scope() types.CardScope {
	return s.scope
}

// Read replaces the in-memory graph with the contents of the local file.
// A missing file yields an empty graph.
func (s *Store) Read() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return types.ErrPathNotSet
	}
	data, exists, err := localfile.Read(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	if !exists || strings.TrimSpace(string(data)) == "" {
		s.snap = types.Snapshot{Boards: []types.Board{}}
		s.logger.Info("database file not found, starting empty", zap.String("path", s.path))
		return nil
	}

	snap, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %w", types.ErrIO, s.path, err)
	}
	s.warnScopeConflicts(snap)
	s.snap = snap
	s.logger.Info("database loaded",
		zap.String("path", s.path),
		zap.Int("boards", len(snap.Boards)),
		zap.String("username", snap.Credentials.Username))
	return nil
}

// Write encodes the current graph and replaces the local file.
func (s *Store) Write() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(s.snap)
}

// Push uploads the graph, without the password, as the board document of
// username. Local state is never changed.
func (s *Store) Push(ctx context.Context, username string) error {
	if s.remote == nil {
		return types.ErrRemoteDisabled
	}
	if username == "" {
		return types.ErrNotLoggedIn
	}

	snap := s.Snapshot()
	snap.Credentials.Username = username
	data, err := codec.EncodeRemote(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrRemote, err)
	}

	start := time.Now()
	if err := s.remote.Put(ctx, types.CollectionBoards, username, data); err != nil {
		s.logger.Warn("push failed", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("%w: push boards for %q: %w", types.ErrRemote, username, err)
	}
	s.logger.Info("boards pushed",
		zap.String("username", username),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Pull downloads the board document of username, writes it to the local
// file and then makes it the in-memory graph. The password already held
// for the same user is kept. On any failure local state is unchanged.
func (s *Store) Pull(ctx context.Context, username string) error {
	if s.remote == nil {
		return types.ErrRemoteDisabled
	}
	if username == "" {
		return types.ErrNotLoggedIn
	}

	start := time.Now()
	data, err := s.remote.Get(ctx, types.CollectionBoards, username)
	if errors.Is(err, types.ErrDocumentNotFound) {
		return fmt.Errorf("%w: no boards stored for %q", types.ErrRemote, username)
	}
	if err != nil {
		s.logger.Warn("pull failed", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("%w: pull boards for %q: %w", types.ErrRemote, username, err)
	}
	pulled, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: boards for %q: %w", types.ErrRemote, username, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := types.Snapshot{
		Credentials: types.Credentials{Username: username},
		Boards:      pulled.Boards,
	}
	if s.snap.Credentials.Username == username {
		next.Credentials.Password = s.snap.Credentials.Password
	}
	s.warnScopeConflicts(next)
	if err := s.persist(next); err != nil {
		return err
	}
	s.snap = next
	s.logger.Info("boards pulled",
		zap.String("username", username),
		zap.Int("boards", len(next.Boards)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Logout clears the credentials and the graph and writes the empty state,
// so the next start is logged out. The file itself is kept.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := s.snap.Credentials.Username
	next := types.Snapshot{Boards: []types.Board{}}
	if err := s.persist(next); err != nil {
		return err
	}
	s.snap = next
	s.logger.Info("logged out", zap.String("username", username))
	return nil
}

// DeleteAccount removes the remote board document of the current user and
// then clears local state like Logout. If the remote delete fails nothing
// local changes.
func (s *Store) DeleteAccount(ctx context.Context) error {
	if s.remote == nil {
		return types.ErrRemoteDisabled
	}
	username := s.Credentials().Username
	if username == "" {
		return types.ErrNotLoggedIn
	}
	if err := s.remote.Delete(ctx, types.CollectionBoards, username); err != nil {
		return fmt.Errorf("%w: delete boards for %q: %w", types.ErrRemote, username, err)
	}
	s.logger.Info("remote boards deleted", zap.String("username", username))
	return s.Logout()
}

// Snapshot returns a deep copy of the whole graph.
func (s *Store) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Boards returns a deep copy of every board in display order.
func (s *Store) Boards() []types.Board {
	return s.Snapshot().Boards
}

// Board returns a copy of the board titled title.
func (s *Store) Board(title string) (types.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bi := s.snap.BoardIndex(title)
	if bi < 0 {
		return types.Board{}, fmt.Errorf("%w: %q", types.ErrBoardNotFound, title)
	}
	return s.snap.Boards[bi].Clone(), nil
}

// List returns a copy of the list addressed by ref.
func (s *Store) List(ref types.ListRef) (types.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bi, li, err := locate(s.snap, ref)
	if err != nil {
		return types.List{}, err
	}
	return s.snap.Boards[bi].Lists[li].Clone(), nil
}

// Card returns the card addressed by ref.
func (s *Store) Card(ref types.CardRef) (types.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bi, li, ci, err := locateCard(s.snap, ref)
	if err != nil {
		return types.Card{}, err
	}
	return s.snap.Boards[bi].Lists[li].Cards[ci], nil
}

// FindCard returns a reference to every card titled title.
func (s *Store) FindCard(title string) []types.CardRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.FindCards(title)
}

// Credentials returns the current user's credentials.
func (s *Store) Credentials() types.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Credentials
}

// SetCredentials records c as the current user and writes the file.
func (s *Store) SetCredentials(c types.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	next.Credentials = c
	if err := s.persist(next); err != nil {
		return err
	}
	s.snap = next
	s.logger.Info("credentials set", zap.String("username", c.Username))
	return nil
}

// persist encodes snap and writes it to the store path. Callers hold mu.
func (s *Store) persist(snap types.Snapshot) error {
	if s.path == "" {
		return types.ErrPathNotSet
	}
	data, err := codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	if err := s.writeFile(s.path, data); err != nil {
		s.logger.Error("database write failed", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	return nil
}

// mutate applies fn to a clone of the graph, persists the clone and commits
// it. The write hook runs after the lock is released.
func (s *Store) mutate(fn func(next *types.Snapshot) error) error {
	s.mu.Lock()
	next := s.snap.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	hook := s.onWrite
	var committed types.Snapshot
	if hook != nil {
		committed = next.Clone()
	}
	s.mu.Unlock()

	if hook != nil {
		hook(committed)
	}
	return nil
}

// warnScopeConflicts logs card titles that break the store-wide scope. The
// file may have been written under the list scope, so this is not fatal.
func (s *Store) warnScopeConflicts(snap types.Snapshot) {
	if s.scope != types.ScopeStore {
		return
	}
	seen := make(map[string]bool)
	for _, b := range snap.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				if seen[c.Title] {
					s.logger.Warn("card title is not unique across the store",
						zap.String("card", c.Title),
						zap.String("board", b.Title),
						zap.String("list", l.Title))
				}
				seen[c.Title] = true
			}
		}
	}
}
