package types

import (
	"fmt"
	"time"
)

// CardScope selects where card titles must be unique.
type CardScope string

// Supported card scopes.
const (
	ScopeStore CardScope = "store" // unique across every board and list
	ScopeList  CardScope = "list"  // unique within the containing list
)

// ParseCardScope converts s to a CardScope. An empty string is ScopeStore.
func ParseCardScope(s string) (CardScope, error) {
	switch CardScope(s) {
	case "", ScopeStore:
		return ScopeStore, nil
	case ScopeList:
		return ScopeList, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidScope, s)
}

// Supported remote backend names.
const (
	BackendNone      = "none"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendAzTables  = "aztables"
	BackendFirestore = "firestore"
)

// Config validation errors.
var (
	ErrBackendUnknown   = fmt.Errorf("%w: unknown remote backend", ErrValidation)
	ErrBackendParameter = fmt.Errorf("%w: missing remote backend parameter", ErrValidation)
	ErrLogLevelUnknown  = fmt.Errorf("%w: unknown log level", ErrValidation)
	ErrTimeoutInvalid   = fmt.Errorf("%w: sync timeout must not be negative", ErrValidation)
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendNone:      true,
	BackendSQLite:    true,
	BackendRedis:     true,
	BackendAzTables:  true,
	BackendFirestore: true,
}

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config is the full application configuration, loaded from config.yaml
// and KANBARU_* environment variables.
type Config struct {
	DataDir   string       `mapstructure:"data_dir" yaml:"data_dir"`
	CardScope string       `mapstructure:"card_scope" yaml:"card_scope"`
	Log       LogConfig    `mapstructure:"log" yaml:"log"`
	Remote    RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Sync      SyncConfig   `mapstructure:"sync" yaml:"sync"`
}

// LogConfig controls event.log output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Stderr bool   `mapstructure:"stderr" yaml:"stderr"`
}

// RemoteConfig selects and parameterizes the remote document store.
type RemoteConfig struct {
	Backend   string          `mapstructure:"backend" yaml:"backend"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite" yaml:"sqlite"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	AzTables  AzTablesConfig  `mapstructure:"aztables" yaml:"aztables"`
	Firestore FirestoreConfig `mapstructure:"firestore" yaml:"firestore"`
}

// SQLiteConfig configures the sqlite document store.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// RedisConfig configures the redis document store.
type RedisConfig struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// AzTablesConfig configures the Azure Table Storage document store.
type AzTablesConfig struct {
	ConnectionString string `mapstructure:"connection_string" yaml:"connection_string"`
	Table            string `mapstructure:"table" yaml:"table"`
}

// FirestoreConfig configures the Firestore document store.
type FirestoreConfig struct {
	ProjectID        string `mapstructure:"project_id" yaml:"project_id"`
	CredentialsFile  string `mapstructure:"credentials_file" yaml:"credentials_file"`
	CollectionPrefix string `mapstructure:"collection_prefix" yaml:"collection_prefix"`
}

// SyncConfig controls push/pull behavior.
type SyncConfig struct {
	AutoPush bool          `mapstructure:"auto_push" yaml:"auto_push"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if _, err := ParseCardScope(c.CardScope); err != nil {
		return err
	}
	if c.Log.Level != "" && !knownLogLevels[c.Log.Level] {
		return fmt.Errorf("%w %q", ErrLogLevelUnknown, c.Log.Level)
	}
	if c.Sync.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	return c.Remote.Validate()
}

// Validate checks the backend name and its required parameters.
func (r RemoteConfig) Validate() error {
	backend := r.Backend
	if backend == "" {
		backend = BackendNone
	}
	if !knownBackends[backend] {
		return fmt.Errorf("%w %q", ErrBackendUnknown, r.Backend)
	}
	switch backend {
	case BackendSQLite:
		if r.SQLite.Path == "" {
			return fmt.Errorf("%w: remote.sqlite.path", ErrBackendParameter)
		}
	case BackendRedis:
		if r.Redis.URL == "" {
			return fmt.Errorf("%w: remote.redis.url", ErrBackendParameter)
		}
	case BackendAzTables:
		if r.AzTables.ConnectionString == "" {
			return fmt.Errorf("%w: remote.aztables.connection_string", ErrBackendParameter)
		}
		if r.AzTables.Table == "" {
			return fmt.Errorf("%w: remote.aztables.table", ErrBackendParameter)
		}
	case BackendFirestore:
		if r.Firestore.ProjectID == "" {
			return fmt.Errorf("%w: remote.firestore.project_id", ErrBackendParameter)
		}
	}
	return nil
}

// Enabled reports whether a remote backend is configured.
func (r RemoteConfig) Enabled() bool {
	return r.Backend != "" && r.Backend != BackendNone
}
