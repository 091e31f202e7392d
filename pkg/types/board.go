package types

// Board is a titled, ordered collection of lists.
type Board struct {
	Title string
	Lists []List
}

// ListIndex returns the position of the list titled title, or -1.
func (b Board) ListIndex(title string) int {
	title = NormalizeTitle(title)
	for i, l := range b.Lists {
		if l.Title == title {
			return i
		}
	}
	return -1
}

// ListTitles returns the list titles in display order.
func (b Board) ListTitles() []string {
	titles := make([]string, len(b.Lists))
	for i, l := range b.Lists {
		titles[i] = l.Title
	}
	return titles
}

// CardCount returns the number of cards across all lists of the board.
func (b Board) CardCount() int {
	n := 0
	for _, l := range b.Lists {
		n += len(l.Cards)
	}
	return n
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := Board{Title: b.Title}
	if b.Lists != nil {
		out.Lists = make([]List, len(b.Lists))
		for i, l := range b.Lists {
			out.Lists[i] = l.Clone()
		}
	}
	return out
}
