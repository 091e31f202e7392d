package types

// List is an ordered column of cards within a board.
type List struct {
	Title string
	Cards []Card
}

// CardIndex returns the position of the card titled title, or -1.
func (l List) CardIndex(title string) int {
	title = NormalizeTitle(title)
	for i, c := range l.Cards {
		if c.Title == title {
			return i
		}
	}
	return -1
}

// CardTitles returns the card titles in display order.
func (l List) CardTitles() []string {
	titles := make([]string, len(l.Cards))
	for i, c := range l.Cards {
		titles[i] = c.Title
	}
	return titles
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := List{Title: l.Title}
	if l.Cards != nil {
		out.Cards = make([]Card, len(l.Cards))
		copy(out.Cards, l.Cards)
	}
	return out
}
