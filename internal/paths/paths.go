// Package paths resolves configuration and data directory locations and the
// database file inside the data directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Names used under the resolved directories.
const (
	AppDirName       = "Kanbaru"
	ConfigDirName    = "kanbaru"
	DatabaseFileName = "Database.json"
	EventLogFileName = "event.log"
	ConfigFileName   = "config.yaml"
	EnvFileName      = ".env"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "KANBARU_CONFIG_DIR"
	EnvDataDir   = "KANBARU_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/kanbaru (fallback ~/.config/kanbaru)
// macOS:   ~/Library/Application Support/kanbaru
// Windows: %APPDATA%/kanbaru
func DefaultConfigDir() (string, error) {
	switch platformDir.goos {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, ConfigDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", ConfigDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, ConfigDirName), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Windows: ~/Documents/Kanbaru
// Others:  ~/Kanbaru
func DefaultDataDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	if platformDir.goos == "windows" {
		return filepath.Join(home, "Documents", AppDirName), nil
	}
	return filepath.Join(home, AppDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > KANBARU_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue > KANBARU_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// DatabasePath returns the database file inside dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFileName)
}

// EventLogPath returns the event log inside dataDir.
func EventLogPath(dataDir string) string {
	return filepath.Join(dataDir, EventLogFileName)
}
