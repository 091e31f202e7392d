package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/render"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// JSON views of the entities. The entity types carry no JSON tags.
type cardJSON struct {
	Board       string `json:"board,omitempty"`
	List        string `json:"list,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type listJSON struct {
	Title string     `json:"title"`
	Cards []cardJSON `json:"cards"`
}

type boardJSON struct {
	Title string     `json:"title"`
	Lists []listJSON `json:"lists"`
}

type boardSummaryJSON struct {
	Title string `json:"title"`
	Lists int    `json:"lists"`
	Cards int    `json:"cards"`
}

type messageJSON struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newCardJSON(ref types.CardRef, c types.Card) cardJSON {
	return cardJSON{
		Board:       ref.Board,
		List:        ref.List,
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date,
		Time:        c.Time,
	}
}

func newListJSON(l types.List) listJSON {
	out := listJSON{Title: l.Title, Cards: make([]cardJSON, 0, len(l.Cards))}
	for _, c := range l.Cards {
		out.Cards = append(out.Cards, newCardJSON(types.CardRef{}, c))
	}
	return out
}

func newBoardJSON(b types.Board) boardJSON {
	out := boardJSON{Title: b.Title, Lists: make([]listJSON, 0, len(b.Lists))}
	for _, l := range b.Lists {
		out.Lists = append(out.Lists, newListJSON(l))
	}
	return out
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// printDone reports a completed action as a styled line or, in JSON mode,
// as a status object.
func (f *rootFlags) printDone(cmd *cobra.Command, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if f.jsonMode {
		return printJSON(cmd, messageJSON{Status: "ok", Message: msg})
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Success(msg))
	return nil
}

// argsError wraps a positional argument validator so its errors map to
// the usage exit code.
func argsError(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}
