package types

import "fmt"

// ListRef addresses a list by board title and list title.
type ListRef struct {
	Board string
	List  string
}

// String renders the reference as "Board/List".
func (r ListRef) String() string {
	return fmt.Sprintf("%s/%s", r.Board, r.List)
}

// Equal reports whether both references address the same list.
func (r ListRef) Equal(o ListRef) bool {
	return NormalizeTitle(r.Board) == NormalizeTitle(o.Board) &&
		NormalizeTitle(r.List) == NormalizeTitle(o.List)
}

// CardRef addresses a card by board, list and card title.
type CardRef struct {
	Board string
	List  string
	Card  string
}

// ListRef returns the reference of the list holding the card.
func (r CardRef) ListRef() ListRef {
	return ListRef{Board: r.Board, List: r.List}
}

// String renders the reference as "Board/List/Card".
func (r CardRef) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Board, r.List, r.Card)
}
