package redisdoc

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(client, prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "")

	_, err := s.Get(ctx, types.CollectionBoards, "ada")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)

	require.NoError(t, s.Put(ctx, types.CollectionBoards, "ada", []byte(`{"version":1}`)))
	raw, err := mr.Get("kanbaru:boards:ada")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, raw)

	got, err := s.Get(ctx, types.CollectionBoards, "ada")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Delete(ctx, types.CollectionBoards, "ada"))
	assert.False(t, mr.Exists("kanbaru:boards:ada"))
	require.NoError(t, s.Delete(ctx, types.CollectionBoards, "ada"), "delete is idempotent")
}

func TestCustomPrefix(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "team")

	require.NoError(t, s.Put(ctx, types.CollectionAccounts, "ada", []byte("x")))
	assert.True(t, mr.Exists("team:accounts:ada"))
	assert.False(t, mr.Exists("kanbaru:accounts:ada"))
}

func TestServerFailure(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "")
	mr.SetError("READONLY")

	err := s.Put(ctx, types.CollectionBoards, "ada", []byte("x"))
	require.Error(t, err)
	_, err = s.Get(ctx, types.CollectionBoards, "ada")
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrDocumentNotFound)
}

func TestOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(context.Background(), "::not a url", "")
	assert.Error(t, err)
}
