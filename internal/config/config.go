// Package config loads the Kanbaru configuration from config.yaml, an
// optional .env file and KANBARU_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kanbaru/internal/paths"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// EnvPrefix prefixes every environment override, e.g.
	// KANBARU_REMOTE_REDIS_URL for remote.redis.url.
	EnvPrefix = "KANBARU"
)

// Config keys.
const (
	KeyDataDir            = "data_dir"
	KeyCardScope          = "card_scope"
	KeyLogLevel           = "log.level"
	KeyLogStderr          = "log.stderr"
	KeyRemoteBackend      = "remote.backend"
	KeySQLitePath         = "remote.sqlite.path"
	KeyRedisURL           = "remote.redis.url"
	KeyRedisPrefix        = "remote.redis.prefix"
	KeyAzTablesConnString = "remote.aztables.connection_string"
	KeyAzTablesTable      = "remote.aztables.table"
	KeyFirestoreProject   = "remote.firestore.project_id"
	KeyFirestoreCreds     = "remote.firestore.credentials_file"
	KeyFirestorePrefix    = "remote.firestore.collection_prefix"
	KeySyncAutoPush       = "sync.auto_push"
	KeySyncTimeout        = "sync.timeout"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Kanbaru configuration

# Data directory holding Database.json and event.log (optional;
# overridable by --data-dir and KANBARU_DATA_DIR)
# data_dir:

# Card title uniqueness: "store" (whole store) or "list" (per list)
card_scope: store

log:
  level: info
  stderr: false

# Remote document store: none, sqlite, redis, aztables, firestore.
# Secrets such as connection strings can live in .env next to this file.
remote:
  backend: none

sync:
  auto_push: false
  timeout: 30s
`

// Default returns the configuration used when nothing is set.
func Default() types.Config {
	return types.Config{
		CardScope: string(types.ScopeStore),
		Log:       types.LogConfig{Level: "info"},
		Remote: types.RemoteConfig{
			Backend:   types.BackendNone,
			Redis:     types.RedisConfig{Prefix: "kanbaru"},
			AzTables:  types.AzTablesConfig{Table: "kanbaru"},
			Firestore: types.FirestoreConfig{CollectionPrefix: "kanbaru"},
		},
		Sync: types.SyncConfig{Timeout: 30 * time.Second},
	}
}

// Load reads the configuration from configDir. It creates the directory and
// a default config.yaml on first run, loads configDir/.env into the process
// environment without overriding variables that are already set, and
// applies KANBARU_* overrides. The result is validated.
func Load(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadDotEnv(configDir); err != nil {
		return types.Config{}, err
	}

	v := newViper()
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("%w: decode config: %w", types.ErrValidation, err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", filepath.Join(configDir, paths.ConfigFileName), err)
	}
	return cfg, nil
}

// WriteIfMissing writes cfg to path as YAML unless the file already exists.
// It reports whether a file was written.
func WriteIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyCardScope, d.CardScope)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogStderr, d.Log.Stderr)
	v.SetDefault(KeyRemoteBackend, d.Remote.Backend)
	v.SetDefault(KeySQLitePath, d.Remote.SQLite.Path)
	v.SetDefault(KeyRedisURL, d.Remote.Redis.URL)
	v.SetDefault(KeyRedisPrefix, d.Remote.Redis.Prefix)
	v.SetDefault(KeyAzTablesConnString, d.Remote.AzTables.ConnectionString)
	v.SetDefault(KeyAzTablesTable, d.Remote.AzTables.Table)
	v.SetDefault(KeyFirestoreProject, d.Remote.Firestore.ProjectID)
	v.SetDefault(KeyFirestoreCreds, d.Remote.Firestore.CredentialsFile)
	v.SetDefault(KeyFirestorePrefix, d.Remote.Firestore.CollectionPrefix)
	v.SetDefault(KeySyncAutoPush, d.Sync.AutoPush)
	v.SetDefault(KeySyncTimeout, d.Sync.Timeout)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadDotEnv loads configDir/.env if present.
func loadDotEnv(configDir string) error {
	path := filepath.Join(configDir, paths.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
