package localfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MissingFile(t *testing.T) {
	data, exists, err := Read(filepath.Join(t.TempDir(), "Database.json"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, data)
}

func TestWriteAtomic(t *testing.T) {
	t.Run("creates parent directory and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "Kanbaru", "Database.json")
		require.NoError(t, WriteAtomic(path, []byte(`{"version":1}`)))

		data, exists, err := Read(path)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, `{"version":1}`, string(data))
	})

	t.Run("replaces existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Database.json")
		require.NoError(t, WriteAtomic(path, []byte("first content that is long")))
		require.NoError(t, WriteAtomic(path, []byte("second")))

		data, _, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Database.json")
		require.NoError(t, WriteAtomic(path, []byte("x")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Database.json", entries[0].Name())
	})

	t.Run("owner-only permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions only")
		}
		path := filepath.Join(t.TempDir(), "Database.json")
		require.NoError(t, WriteAtomic(path, []byte("x")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, FileMode, info.Mode().Perm())
	})

	t.Run("fails when target is a directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Database.json")
		require.NoError(t, os.Mkdir(path, 0o755))

		err := WriteAtomic(path, []byte("x"))
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must be cleaned up")
	})
}
