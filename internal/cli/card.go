package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/render"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// cardFlags addresses the list a card command works on.
type cardFlags struct {
	board string
	list  string
}

func (c *cardFlags) ref() types.ListRef {
	return types.ListRef{Board: c.board, List: c.list}
}

func (c *cardFlags) cardRef(title string) types.CardRef {
	return types.CardRef{Board: c.board, List: c.list, Card: title}
}

func (c *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.board, "board", "", "board holding the card (required)")
	cmd.Flags().StringVar(&c.list, "list", "", "list holding the card (required)")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("list")
}

func newCardCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}
	cmd.AddCommand(
		newCardAddCmd(f),
		newCardShowCmd(f),
		newCardUpdateCmd(f),
		newCardDeleteCmd(f),
		newCardMoveCmd(f),
		newCardFindCmd(f),
	)
	return cmd
}

func newCardAddCmd(f *rootFlags) *cobra.Command {
	var cf cardFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Append a card to a list",
		Long: `Add appends a card to the end of a list. The card gets an empty
description and today's date and time.`,
		Example: `  kanbaru card add "Write report" --board Work --list "To Do"`,
		Args:    argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				c, err := a.Store.AddCard(cf.ref(), args[0])
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd, newCardJSON(cf.cardRef(c.Title), c))
				}
				return f.printDone(cmd, "Created card %q in %s", c.Title, cf.ref())
			})
		},
	}
	cf.bind(cmd)
	return cmd
}

func newCardShowCmd(f *rootFlags) *cobra.Command {
	var cf cardFlags
	var width int
	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show a card with its rendered description",
		Args:  argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ref := cf.cardRef(args[0])
				c, err := a.Store.Card(ref)
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd, newCardJSON(ref, c))
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Card(ref, c, width))
				return nil
			})
		},
	}
	cf.bind(cmd)
	cmd.Flags().IntVar(&width, "width", render.DefaultWidth, "render width in columns")
	return cmd
}

func newCardUpdateCmd(f *rootFlags) *cobra.Command {
	var cf cardFlags
	var title, description, date, clock string
	cmd := &cobra.Command{
		Use:   "update <title>",
		Short: "Change a card's title, description, date or time",
		Long: `Update replaces the fields given by flags and keeps the others.
Dates use dd-mm-yyyy and times use HH:MM. An empty --date or --time clears
the field.`,
		Example: `  kanbaru card update "Write report" --board Work --list "To Do" --date 20-10-2026 --time 17:00
  kanbaru card update "Write report" --board Work --list "To Do" --title "Write final report"`,
		Args: argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				old := cf.cardRef(args[0])
				c, err := a.Store.Card(old)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("title") {
					c.Title = title
				}
				if flags.Changed("description") {
					c.Description = description
				}
				if flags.Changed("date") {
					c.Date = date
				}
				if flags.Changed("time") {
					c.Time = clock
				}
				if err := a.Store.UpdateCard(old, c); err != nil {
					return err
				}
				updated, err := a.Store.Card(cf.cardRef(c.Title))
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd, newCardJSON(cf.cardRef(updated.Title), updated))
				}
				return f.printDone(cmd, "Updated card %q", updated.Title)
			})
		},
	}
	cf.bind(cmd)
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description (markdown)")
	cmd.Flags().StringVar(&date, "date", "", "new date (dd-mm-yyyy)")
	cmd.Flags().StringVar(&clock, "time", "", "new time (HH:MM)")
	return cmd
}

func newCardDeleteCmd(f *rootFlags) *cobra.Command {
	var cf cardFlags
	cmd := &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a card",
		Long:  "Delete removes a card from its list. Deleting a card that is not there succeeds.",
		Args:  argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.DeleteCard(cf.cardRef(args[0])); err != nil {
					return err
				}
				return f.printDone(cmd, "Deleted card %q", args[0])
			})
		},
	}
	cf.bind(cmd)
	return cmd
}

func newCardMoveCmd(f *rootFlags) *cobra.Command {
	var cf cardFlags
	var toBoard, toList string
	cmd := &cobra.Command{
		Use:   "move <title>",
		Short: "Move a card to the end of another list",
		Example: `  kanbaru card move "Write report" --board Work --list "To Do" --to-list Done
  kanbaru card move "Write report" --board Work --list "To Do" --to-board Archive --to-list 2026`,
		Args: argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				to := types.ListRef{Board: toBoard, List: toList}
				if to.Board == "" {
					to.Board = cf.board
				}
				if err := a.Store.MoveCard(args[0], cf.ref(), to); err != nil {
					return err
				}
				return f.printDone(cmd, "Moved card %q to %s", args[0], to)
			})
		},
	}
	cf.bind(cmd)
	cmd.Flags().StringVar(&toBoard, "to-board", "", "destination board (default: --board)")
	cmd.Flags().StringVar(&toList, "to-list", "", "destination list (required)")
	_ = cmd.MarkFlagRequired("to-list")
	return cmd
}

func newCardFindCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "find <title>",
		Short: "List every board and list holding a card with this title",
		Args:  argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				refs := a.Store.FindCard(args[0])
				if f.jsonMode {
					out := make([]cardJSON, 0, len(refs))
					for _, ref := range refs {
						c, err := a.Store.Card(ref)
						if err != nil {
							return err
						}
						out = append(out, newCardJSON(ref, c))
					}
					return printJSON(cmd, out)
				}
				if len(refs) == 0 {
					return fmt.Errorf("%w: %q", types.ErrCardNotFound, args[0])
				}
				for _, ref := range refs {
					fmt.Fprintln(cmd.OutOrStdout(), ref.String())
				}
				return nil
			})
		},
	}
}
