package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

var fixedNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Database.json")
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s := New(path, opts...)
	require.NoError(t, s.Read())
	return s
}

// reopen loads the store's file into a fresh store with the same options.
func reopen(t *testing.T, s *Store, opts ...Option) *Store {
	t.Helper()
	fresh := New(s.Path(), append([]Option{WithCardScope(s.Scope())}, opts...)...)
	require.NoError(t, fresh.Read())
	return fresh
}

// failWrites makes every subsequent file write fail.
func failWrites(s *Store) {
	s.writeFile = func(string, []byte) error { return errors.New("disk full") }
}

func cardTitles(t *testing.T, s *Store, board, list string) []string {
	t.Helper()
	l, err := s.List(types.ListRef{Board: board, List: list})
	require.NoError(t, err)
	return l.CardTitles()
}

// memRemote is an in-memory types.Remote with failure injection.
type memRemote struct {
	mu   sync.Mutex
	docs map[string][]byte
	err  error
}

func newMemRemote() *memRemote {
	return &memRemote{docs: make(map[string][]byte)}
}

func (m *memRemote) Put(_ context.Context, collection, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.docs[collection+"/"+key] = append([]byte(nil), doc...)
	return nil
}

func (m *memRemote) Get(_ context.Context, collection, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[collection+"/"+key]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (m *memRemote) Delete(_ context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.docs, collection+"/"+key)
	return nil
}

func (m *memRemote) Close() error { return nil }

func (m *memRemote) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
