package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
)

func newPushCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local boards to the account",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Push(ctx); err != nil {
					return err
				}
				return f.printDone(cmd, "Pushed boards for %q", a.Store.Credentials().Username)
			})
		},
	}
}

func newPullCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local boards with the account's boards",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Pull(ctx); err != nil {
					return err
				}
				return f.printDone(cmd, "Pulled boards for %q", a.Store.Credentials().Username)
			})
		},
	}
}
