package tablesdoc

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

func TestEntityRoundTrip(t *testing.T) {
	now := time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"small", `{"version":1,"boards":[]}`},
		{"multi chunk ascii", strings.Repeat("a", chunkBytes*2+17)},
		{"multi chunk multibyte", strings.Repeat("ĉapelo ", chunkBytes/3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeEntity(types.CollectionBoards, "ada/lovelace", []byte(tt.doc), now)
			require.NoError(t, err)

			var raw map[string]any
			require.NoError(t, sonic.Unmarshal(data, &raw))
			assert.Equal(t, "boards", raw["PartitionKey"])
			assert.Equal(t, "ada%2Flovelace", raw["RowKey"])

			got, err := decodeEntity(data)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, string(got))
		})
	}
}

func TestEncodeEntity_TooLarge(t *testing.T) {
	doc := []byte(strings.Repeat("x", MaxDocumentBytes+1))
	_, err := encodeEntity(types.CollectionBoards, "ada", doc, time.Now())
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	// Rune-boundary cuts leave each chunk short, so a document under the
	// byte limit can still need more chunks than an entity holds.
	runes := (MaxDocumentBytes - 1) / 3
	doc = []byte("a" + strings.Repeat("€", runes))
	require.LessOrEqual(t, len(doc), MaxDocumentBytes)
	require.Greater(t, len(splitRunes(doc, chunkBytes)), maxChunks)
	_, err = encodeEntity(types.CollectionBoards, "ada", doc, time.Now())
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	fits := []byte(strings.Repeat("€", maxChunks*(chunkBytes/3)))
	data, err := encodeEntity(types.CollectionBoards, "ada", fits, time.Now())
	require.NoError(t, err)
	got, err := decodeEntity(data)
	require.NoError(t, err)
	assert.Equal(t, fits, got)
}

func TestDecodeEntity_Malformed(t *testing.T) {
	_, err := decodeEntity([]byte(`{"Chunks":2,"Chunk0":"a"}`))
	assert.Error(t, err)
	_, err = decodeEntity([]byte(`{"RowKey":"x"}`))
	assert.Error(t, err)
	_, err = decodeEntity([]byte(`not json`))
	assert.Error(t, err)
}

func TestSplitRunes(t *testing.T) {
	in := []byte("aé€😀bc")
	for size := 4; size <= len(in); size++ {
		parts := splitRunes(in, size)
		var joined []byte
		for _, p := range parts {
			assert.LessOrEqual(t, len(p), size)
			assert.True(t, utf8.Valid(p), "chunk %q at size %d", p, size)
			joined = append(joined, p...)
		}
		assert.Equal(t, in, joined)
	}
	assert.Empty(t, splitRunes(nil, 8))
}

func TestRowKeyEscapesReservedCharacters(t *testing.T) {
	key := rowKey(`a/b\c#d?e`)
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, `\`)
	assert.NotContains(t, key, "#")
	assert.NotContains(t, key, "?")
}

// TestAgainstService runs against Azurite or a real account when
// KANBARU_TEST_AZTABLES_CONNECTION_STRING is set.
func TestAgainstService(t *testing.T) {
	connStr := os.Getenv("KANBARU_TEST_AZTABLES_CONNECTION_STRING")
	if connStr == "" {
		t.Skip("KANBARU_TEST_AZTABLES_CONNECTION_STRING not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, connStr, "kanbarutest")
	require.NoError(t, err)
	defer s.Close()

	key := uuid.NewString()
	_, err = s.Get(ctx, types.CollectionBoards, key)
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)

	doc := []byte(strings.Repeat("z", chunkBytes+5))
	require.NoError(t, s.Put(ctx, types.CollectionBoards, key, doc))
	got, err := s.Get(ctx, types.CollectionBoards, key)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	require.NoError(t, s.Delete(ctx, types.CollectionBoards, key))
	require.NoError(t, s.Delete(ctx, types.CollectionBoards, key))
}
