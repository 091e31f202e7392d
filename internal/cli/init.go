package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/config"
	"github.com/mesh-intelligence/kanbaru/internal/paths"
)

type initJSON struct {
	ConfigFile string `json:"config_file"`
	Database   string `json:"database"`
	Created    bool   `json:"created"`
}

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kanbaru configuration and storage",
		Long: "Create the configuration directory with config.yaml, then the data\n" +
			"directory with an empty Database.json. Existing files are left untouched.",
		Args: argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.runInit(cmd)
		},
	}
}

func (f *rootFlags) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	// Record an explicit --data-dir so later runs find the same database.
	cfg := config.Default()
	if f.dataDir != "" {
		abs, err := filepath.Abs(f.dataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = abs
	}
	configPath := filepath.Join(configDir, paths.ConfigFileName)
	if _, err := config.WriteIfMissing(configPath, cfg); err != nil {
		return err
	}

	var dbPath string
	var created bool
	err = f.withApp(cmd, func(ctx context.Context, a *app.App) error {
		dbPath = a.Store.Path()
		if _, err := os.Stat(dbPath); err == nil {
			return nil
		}
		created = true
		return a.Store.Write()
	})
	if err != nil {
		return err
	}

	if f.jsonMode {
		return printJSON(cmd, initJSON{ConfigFile: configPath, Database: dbPath, Created: created})
	}
	return f.printDone(cmd, "Kanbaru initialized: %s", dbPath)
}
