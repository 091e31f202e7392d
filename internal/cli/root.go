// Package cli implements the kanbaru command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/config"
	"github.com/mesh-intelligence/kanbaru/internal/paths"
	"github.com/mesh-intelligence/kanbaru/internal/render"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool

	appOpts []app.Option
}

// NewRootCmd creates the top-level "kanbaru" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd()
}

func newRootCmd(appOpts ...app.Option) *cobra.Command {
	f := &rootFlags{appOpts: appOpts}
	root := &cobra.Command{
		Use:   "kanbaru",
		Short: "Kanban boards in a local file, synced on request",
		Long: "Kanbaru keeps boards, lists and cards in a single local database file.\n" +
			"Signing up or logging in links the boards to a remote account for push and pull.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (default: ~/.config/kanbaru)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (default: ~/Kanbaru)")
	root.PersistentFlags().BoolVar(&f.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd(f))
	root.AddCommand(newInitCmd(f))
	root.AddCommand(newBoardCmd(f))
	root.AddCommand(newListCmd(f))
	root.AddCommand(newCardCmd(f))
	root.AddCommand(newSignupCmd(f))
	root.AddCommand(newLoginCmd(f))
	root.AddCommand(newLogoutCmd(f))
	root.AddCommand(newDeleteAccountCmd(f))
	root.AddCommand(newWhoamiCmd(f))
	root.AddCommand(newPushCmd(f))
	root.AddCommand(newPullCmd(f))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), render.Error(err.Error()))
		return exitCode(err)
	}
	return exitSuccess
}

// load resolves the configuration directory, loads the configuration and
// resolves the data directory it selects.
func (f *rootFlags) load() (configDir string, cfg types.Config, dataDir string, err error) {
	configDir, err = paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return "", cfg, "", fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err = config.Load(configDir)
	if err != nil {
		return "", cfg, "", fmt.Errorf("load config: %w", err)
	}
	dataDir, err = paths.ResolveDataDir(f.dataDir, cfg.DataDir)
	if err != nil {
		return "", cfg, "", fmt.Errorf("resolve data dir: %w", err)
	}
	return configDir, cfg, dataDir, nil
}

// withApp loads the configuration, opens the application for the resolved
// data directory and runs fn. Auto-pushes started by fn finish before the
// application is closed.
func (f *rootFlags) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, cfg, dataDir, err := f.load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	opts := append([]app.Option{app.WithStderr(cmd.ErrOrStderr())}, f.appOpts...)
	a, err := app.New(ctx, cfg, dataDir, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(ctx, a); err != nil {
		return err
	}
	if err := a.WaitPending(ctx); err != nil {
		return fmt.Errorf("auto-push: %w", err)
	}
	return nil
}
