package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/render"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

func newListCmd(f *rootFlags) *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the lists of a board",
	}
	cmd.PersistentFlags().StringVar(&board, "board", "", "board holding the list (required)")
	_ = cmd.MarkPersistentFlagRequired("board")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "add <title>",
			Short:   "Append a list to a board",
			Example: `  kanbaru list add "To Do" --board Work`,
			Args:    argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					l, err := a.Store.AddList(board, args[0])
					if err != nil {
						return err
					}
					if f.jsonMode {
						return printJSON(cmd, newListJSON(l))
					}
					return f.printDone(cmd, "Created list %q on %q", l.Title, types.NormalizeTitle(board))
				})
			},
		},
		&cobra.Command{
			Use:   "show <title>",
			Short: "Show a list with its cards",
			Args:  argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					l, err := a.Store.List(types.ListRef{Board: board, List: args[0]})
					if err != nil {
						return err
					}
					if f.jsonMode {
						return printJSON(cmd, newListJSON(l))
					}
					fmt.Fprintln(cmd.OutOrStdout(), render.List(l))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename <title> <new-title>",
			Short: "Rename a list",
			Args:  argsError(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					ref := types.ListRef{Board: board, List: args[0]}
					if err := a.Store.RenameList(ref, args[1]); err != nil {
						return err
					}
					return f.printDone(cmd, "Renamed list %q to %q", args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete <title>",
			Short: "Delete a list and its cards",
			Long:  "Delete a list with all its cards. Deleting a list that does not exist succeeds.",
			Args:  argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Store.DeleteList(types.ListRef{Board: board, List: args[0]}); err != nil {
						return err
					}
					return f.printDone(cmd, "Deleted list %q", args[0])
				})
			},
		},
	)
	return cmd
}
