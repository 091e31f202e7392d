package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/render"
)

func newBoardCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <title>",
			Short: "Create a board",
			Example: `  kanbaru board add Work
  kanbaru board add "Side projects" --json`,
			Args: argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					b, err := a.Store.AddBoard(args[0])
					if err != nil {
						return err
					}
					if f.jsonMode {
						return printJSON(cmd, newBoardJSON(b))
					}
					return f.printDone(cmd, "Created board %q", b.Title)
				})
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List boards",
			Args:    argsError(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					boards := a.Store.Boards()
					if f.jsonMode {
						out := make([]boardSummaryJSON, 0, len(boards))
						for _, b := range boards {
							out = append(out, boardSummaryJSON{Title: b.Title, Lists: len(b.Lists), Cards: b.CardCount()})
						}
						return printJSON(cmd, out)
					}
					fmt.Fprintln(cmd.OutOrStdout(), render.Boards(boards))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <title>",
			Short: "Show a board with its lists and cards",
			Args:  argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					b, err := a.Store.Board(args[0])
					if err != nil {
						return err
					}
					if f.jsonMode {
						return printJSON(cmd, newBoardJSON(b))
					}
					fmt.Fprintln(cmd.OutOrStdout(), render.Board(b))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename <title> <new-title>",
			Short: "Rename a board",
			Args:  argsError(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Store.RenameBoard(args[0], args[1]); err != nil {
						return err
					}
					return f.printDone(cmd, "Renamed board %q to %q", args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete <title>",
			Short: "Delete a board and everything on it",
			Long:  "Delete a board with all its lists and cards. Deleting a board that does not exist succeeds.",
			Args:  argsError(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Store.DeleteBoard(args[0]); err != nil {
						return err
					}
					return f.printDone(cmd, "Deleted board %q", args[0])
				})
			},
		},
	)
	return cmd
}
