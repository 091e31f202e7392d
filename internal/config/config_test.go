package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// clearEnv blanks every KANBARU_* override this package reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"KANBARU_DATA_DIR", "KANBARU_CARD_SCOPE", "KANBARU_LOG_LEVEL",
		"KANBARU_REMOTE_BACKEND", "KANBARU_REMOTE_REDIS_URL", "KANBARU_SYNC_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_FirstRun(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "kanbaru")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "card_scope: store")
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlData := `
data_dir: /srv/kanbaru
card_scope: list
log:
  level: debug
remote:
  backend: sqlite
  sqlite:
    path: /srv/remote.db
sync:
  auto_push: true
  timeout: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlData), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/kanbaru", cfg.DataDir)
	assert.Equal(t, "list", cfg.CardScope)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, types.BackendSQLite, cfg.Remote.Backend)
	assert.Equal(t, "/srv/remote.db", cfg.Remote.SQLite.Path)
	assert.Equal(t, "kanbaru", cfg.Remote.Redis.Prefix, "defaults fill unset keys")
	assert.True(t, cfg.Sync.AutoPush)
	assert.Equal(t, 5*time.Second, cfg.Sync.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("KANBARU_REMOTE_BACKEND", "redis")
	t.Setenv("KANBARU_REMOTE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KANBARU_SYNC_TIMEOUT", "1m")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendRedis, cfg.Remote.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Remote.Redis.URL)
	assert.Equal(t, time.Minute, cfg.Sync.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := "KANBARU_REMOTE_BACKEND=redis\nKANBARU_REMOTE_REDIS_URL=redis://from-dotenv:6379\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("KANBARU_REMOTE_BACKEND")
		os.Unsetenv("KANBARU_REMOTE_REDIS_URL")
	})

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "redis://from-dotenv:6379", cfg.Remote.Redis.URL)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown scope", "card_scope: board\n"},
		{"unknown backend", "remote:\n  backend: dropbox\n"},
		{"missing backend parameter", "remote:\n  backend: aztables\n  aztables:\n    table: t\n"},
		{"unknown log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o644))
			_, err := Load(dir)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed\n"), 0o644))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriteIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.DataDir = "/data"

	wrote, err := WriteIfMissing(path, cfg)
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back types.Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "/data", back.DataDir)
	assert.Equal(t, types.BackendNone, back.Remote.Backend)

	wrote, err = WriteIfMissing(path, Default())
	require.NoError(t, err)
	assert.False(t, wrote, "existing file is left alone")
}
