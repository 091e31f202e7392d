package firedoc

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "kanbaru_boards", collectionName(DefaultPrefix, types.CollectionBoards))
	assert.Equal(t, "team_accounts", collectionName("team", types.CollectionAccounts))
	assert.False(t, strings.Contains(docID("ada/lovelace"), "/"))
	assert.Equal(t, "ada", docID("ada"))
}

// TestAgainstEmulator runs when FIRESTORE_EMULATOR_HOST points at a running
// Firestore emulator.
func TestAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, "kanbaru-test", "", "test")
	require.NoError(t, err)
	defer s.Close()

	key := uuid.NewString()
	_, err = s.Get(ctx, types.CollectionBoards, key)
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)

	require.NoError(t, s.Put(ctx, types.CollectionBoards, key, []byte(`{"version":1}`)))
	got, err := s.Get(ctx, types.CollectionBoards, key)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Delete(ctx, types.CollectionBoards, key))
	_, err = s.Get(ctx, types.CollectionBoards, key)
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
	require.NoError(t, s.Delete(ctx, types.CollectionBoards, key))
}
