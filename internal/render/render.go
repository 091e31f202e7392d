// Package render formats boards, lists and cards for a terminal. It only
// reads the values it is given and never touches the store.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// DefaultWidth is used for card views when the caller gives no width.
const DefaultWidth = 80

// Cache glamour renderers by width; building one is expensive.
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// Description renders markdown for a terminal. It falls back to the raw
// text if rendering fails.
func Description(desc string, width int) string {
	if strings.TrimSpace(desc) == "" {
		return EmptyStyle.Render("No description")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	renderer, err := getRenderer(width)
	if err != nil {
		return desc
	}
	out, err := renderer.Render(desc)
	if err != nil {
		return desc
	}
	return strings.TrimSpace(out)
}

// Boards renders one line per board with its list and card counts.
func Boards(boards []types.Board) string {
	if len(boards) == 0 {
		return EmptyStyle.Render("No boards")
	}
	var b strings.Builder
	for i, board := range boards {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s",
			LabelStyle.Render(board.Title),
			SubtleStyle.Render(fmt.Sprintf("(%d lists, %d cards)", len(board.Lists), board.CardCount())))
	}
	return b.String()
}

// Board renders a board as side-by-side list columns.
func Board(board types.Board) string {
	title := BoardTitleStyle.Render(board.Title)
	if len(board.Lists) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, EmptyStyle.Render("No lists"))
	}
	columns := make([]string, len(board.Lists))
	for i, l := range board.Lists {
		columns[i] = List(l)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

// List renders a single list column.
func List(l types.List) string {
	lines := []string{ListTitleStyle.Render(l.Title)}
	if len(l.Cards) == 0 {
		lines = append(lines, EmptyStyle.Render("empty"))
	}
	for _, c := range l.Cards {
		line := "• " + c.Title
		if c.Date != "" {
			line += " " + SubtleStyle.Render(c.Date)
		}
		lines = append(lines, CardLineStyle.Render(line))
	}
	return ColumnStyle.Render(strings.Join(lines, "\n"))
}

// Card renders the full detail of one card.
func Card(ref types.CardRef, c types.Card, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - CardStyle.GetHorizontalFrameSize()
	if inner < 20 {
		inner = 20
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		BoardTitleStyle.UnsetMarginBottom().Render(c.Title),
		SubtleStyle.Render(ref.Board+" / "+ref.List),
		fmt.Sprintf("%s %s  %s %s",
			LabelStyle.Render("Date:"), c.Date,
			LabelStyle.Render("Time:"), c.Time),
		"",
		Description(c.Description, inner),
	)
	return CardStyle.Width(width).Render(header)
}

// Success formats a confirmation message.
func Success(msg string) string {
	return SuccessStyle.Render(msg)
}

// Error formats an error message.
func Error(msg string) string {
	return ErrorStyle.Render(msg)
}
