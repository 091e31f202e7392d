package types

// Credentials identify the logged-in user. An empty Username means nobody
// is logged in.
type Credentials struct {
	Username string
	Password string
}

// LoggedIn reports whether a username is present.
func (c Credentials) LoggedIn() bool {
	return c.Username != ""
}

// Snapshot is the full store graph: every board in display order plus the
// credentials of the current user. It is the unit that is serialized to
// the local file and pushed to the remote document store.
type Snapshot struct {
	Credentials Credentials
	Boards      []Board
}

// BoardIndex returns the position of the board titled title, or -1.
func (s Snapshot) BoardIndex(title string) int {
	title = NormalizeTitle(title)
	for i, b := range s.Boards {
		if b.Title == title {
			return i
		}
	}
	return -1
}

// BoardTitles returns the board titles in display order.
func (s Snapshot) BoardTitles() []string {
	titles := make([]string, len(s.Boards))
	for i, b := range s.Boards {
		titles[i] = b.Title
	}
	return titles
}

// Locate resolves a list reference to board and list positions.
func (s Snapshot) Locate(ref ListRef) (bi, li int, err error) {
	bi = s.BoardIndex(ref.Board)
	if bi < 0 {
		return -1, -1, ErrBoardNotFound
	}
	li = s.Boards[bi].ListIndex(ref.List)
	if li < 0 {
		return bi, -1, ErrListNotFound
	}
	return bi, li, nil
}

// FindCards returns a reference to every card titled title, in display
// order. Under the store-wide card scope there is at most one.
func (s Snapshot) FindCards(title string) []CardRef {
	title = NormalizeTitle(title)
	var refs []CardRef
	for _, b := range s.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				if c.Title == title {
					refs = append(refs, CardRef{Board: b.Title, List: l.Title, Card: c.Title})
				}
			}
		}
	}
	return refs
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Credentials: s.Credentials}
	if s.Boards != nil {
		out.Boards = make([]Board, len(s.Boards))
		for i, b := range s.Boards {
			out.Boards[i] = b.Clone()
		}
	}
	return out
}
