package sqlitedoc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote", "kanbaru.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	_, err := s.Get(ctx, types.CollectionBoards, "ada")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)

	require.NoError(t, s.Put(ctx, types.CollectionBoards, "ada", []byte(`{"version":1}`)))
	got, err := s.Get(ctx, types.CollectionBoards, "ada")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Put(ctx, types.CollectionBoards, "ada", []byte(`{"version":1,"boards":[]}`)))
	got, err = s.Get(ctx, types.CollectionBoards, "ada")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"boards":[]}`, string(got))

	require.NoError(t, s.Delete(ctx, types.CollectionBoards, "ada"))
	_, err = s.Get(ctx, types.CollectionBoards, "ada")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
	require.NoError(t, s.Delete(ctx, types.CollectionBoards, "ada"), "delete is idempotent")
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.Put(ctx, types.CollectionBoards, "ada", []byte("boards")))
	require.NoError(t, s.Put(ctx, types.CollectionAccounts, "ada", []byte("account")))

	got, err := s.Get(ctx, types.CollectionAccounts, "ada")
	require.NoError(t, err)
	assert.Equal(t, "account", string(got))

	require.NoError(t, s.Delete(ctx, types.CollectionAccounts, "ada"))
	got, err = s.Get(ctx, types.CollectionBoards, "ada")
	require.NoError(t, err)
	assert.Equal(t, "boards", string(got))
}

func TestReopenKeepsDocuments(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	require.NoError(t, s.Put(ctx, types.CollectionBoards, "ada", []byte("persisted")))
	require.NoError(t, s.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	got, err := again.Get(ctx, types.CollectionBoards, "ada")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}
