package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// AddBoard appends a new, empty board.
func (s *Store) AddBoard(title string) (types.Board, error) {
	title, err := types.CheckTitle(title)
	if err != nil {
		return types.Board{}, err
	}

	board := types.Board{Title: title, Lists: []types.List{}}
	err = s.mutate(func(next *types.Snapshot) error {
		if next.BoardIndex(title) >= 0 {
			return fmt.Errorf("%w: board %q", types.ErrDuplicateTitle, title)
		}
		next.Boards = append(next.Boards, board)
		return nil
	})
	if err != nil {
		return types.Board{}, err
	}
	s.logger.Info("board added", zap.String("board", title))
	return board.Clone(), nil
}

// RenameBoard changes the title of a board, keeping its position.
func (s *Store) RenameBoard(oldTitle, newTitle string) error {
	newTitle, err := types.CheckTitle(newTitle)
	if err != nil {
		return err
	}

	err = s.mutate(func(next *types.Snapshot) error {
		bi := next.BoardIndex(oldTitle)
		if bi < 0 {
			return fmt.Errorf("%w: %q", types.ErrBoardNotFound, oldTitle)
		}
		if other := next.BoardIndex(newTitle); other >= 0 && other != bi {
			return fmt.Errorf("%w: board %q", types.ErrDuplicateTitle, newTitle)
		}
		next.Boards[bi].Title = newTitle
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("board renamed", zap.String("from", oldTitle), zap.String("to", newTitle))
	return nil
}

// DeleteBoard removes a board with all its lists and cards. Deleting a
// board that does not exist succeeds without touching the file.
func (s *Store) DeleteBoard(title string) error {
	if s.boardIndex(title) < 0 {
		return nil
	}
	err := s.mutate(func(next *types.Snapshot) error {
		bi := next.BoardIndex(title)
		if bi < 0 {
			return nil
		}
		next.Boards = append(next.Boards[:bi], next.Boards[bi+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("board deleted", zap.String("board", title))
	return nil
}

// AddList appends a new, empty list to board.
func (s *Store) AddList(board, title string) (types.List, error) {
	title, titleErr := types.CheckTitle(title)
	list := types.List{Title: title, Cards: []types.Card{}}

	err := s.mutate(func(next *types.Snapshot) error {
		bi := next.BoardIndex(board)
		if bi < 0 {
			return fmt.Errorf("%w: %q", types.ErrBoardNotFound, board)
		}
		if titleErr != nil {
			return titleErr
		}
		if next.Boards[bi].ListIndex(title) >= 0 {
			return fmt.Errorf("%w: list %q in board %q", types.ErrDuplicateTitle, title, board)
		}
		next.Boards[bi].Lists = append(next.Boards[bi].Lists, list)
		return nil
	})
	if err != nil {
		return types.List{}, err
	}
	s.logger.Info("list added", zap.String("board", board), zap.String("list", title))
	return list.Clone(), nil
}

// RenameList changes the title of a list, keeping its position.
func (s *Store) RenameList(ref types.ListRef, newTitle string) error {
	newTitle, titleErr := types.CheckTitle(newTitle)

	err := s.mutate(func(next *types.Snapshot) error {
		bi, li, err := locate(*next, ref)
		if err != nil {
			return err
		}
		if titleErr != nil {
			return titleErr
		}
		if other := next.Boards[bi].ListIndex(newTitle); other >= 0 && other != li {
			return fmt.Errorf("%w: list %q in board %q", types.ErrDuplicateTitle, newTitle, ref.Board)
		}
		next.Boards[bi].Lists[li].Title = newTitle
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("list renamed",
		zap.String("board", ref.Board),
		zap.String("from", ref.List),
		zap.String("to", newTitle))
	return nil
}

// DeleteList removes a list and its cards. Deleting a list that does not
// exist succeeds without touching the file.
func (s *Store) DeleteList(ref types.ListRef) error {
	if _, err := s.List(ref); err != nil {
		return nil
	}
	err := s.mutate(func(next *types.Snapshot) error {
		bi, li, err := locate(*next, ref)
		if err != nil {
			return nil
		}
		lists := next.Boards[bi].Lists
		next.Boards[bi].Lists = append(lists[:li], lists[li+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("list deleted", zap.String("board", ref.Board), zap.String("list", ref.List))
	return nil
}

// AddCard appends a new card titled title to the list addressed by ref. The
// card's date and time are taken from the store clock.
func (s *Store) AddCard(ref types.ListRef, title string) (types.Card, error) {
	card := types.NewCard(title, s.now())
	_, titleErr := types.CheckTitle(card.Title)

	err := s.mutate(func(next *types.Snapshot) error {
		bi, li, err := locate(*next, ref)
		if err != nil {
			return err
		}
		if titleErr != nil {
			return titleErr
		}
		if s.cardTitleTaken(*next, ref, card.Title, nil) {
			return fmt.Errorf("%w: card %q", types.ErrDuplicateTitle, card.Title)
		}
		l := &next.Boards[bi].Lists[li]
		l.Cards = append(l.Cards, card)
		return nil
	})
	if err != nil {
		return types.Card{}, err
	}
	s.logger.Info("card added",
		zap.String("board", ref.Board),
		zap.String("list", ref.List),
		zap.String("card", card.Title))
	return card, nil
}

// UpdateCard replaces the fields of the card addressed by old with updated,
// keeping the card's position in its list.
func (s *Store) UpdateCard(old types.CardRef, updated types.Card) error {
	err := s.mutate(func(next *types.Snapshot) error {
		bi, li, ci, err := locateCard(*next, old)
		if err != nil {
			return err
		}
		canon, err := updated.Canonical()
		if err != nil {
			return err
		}
		updated = canon
		self := types.CardRef{
			Board: next.Boards[bi].Title,
			List:  next.Boards[bi].Lists[li].Title,
			Card:  next.Boards[bi].Lists[li].Cards[ci].Title,
		}
		if s.cardTitleTaken(*next, old.ListRef(), updated.Title, &self) {
			return fmt.Errorf("%w: card %q", types.ErrDuplicateTitle, updated.Title)
		}
		next.Boards[bi].Lists[li].Cards[ci] = updated
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("card updated",
		zap.String("board", old.Board),
		zap.String("list", old.List),
		zap.String("card", old.Card),
		zap.String("title", updated.Title))
	return nil
}

// DeleteCard removes the card addressed by ref. A missing card, list or
// board is not an error and leaves the file untouched.
func (s *Store) DeleteCard(ref types.CardRef) error {
	if _, err := s.Card(ref); err != nil {
		return nil
	}
	err := s.mutate(func(next *types.Snapshot) error {
		bi, li, ci, err := locateCard(*next, ref)
		if err != nil {
			return nil
		}
		cards := next.Boards[bi].Lists[li].Cards
		next.Boards[bi].Lists[li].Cards = append(cards[:ci], cards[ci+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("card deleted",
		zap.String("board", ref.Board),
		zap.String("list", ref.List),
		zap.String("card", ref.Card))
	return nil
}

// MoveCard removes the card titled card from the list from and appends it
// to the list to. Reordering within one list is not supported.
func (s *Store) MoveCard(card string, from, to types.ListRef) error {
	card = types.NormalizeTitle(card)
	if from.Equal(to) {
		return types.ErrSameList
	}

	err := s.mutate(func(next *types.Snapshot) error {
		fbi, fli, fci, err := locateCard(*next, types.CardRef{Board: from.Board, List: from.List, Card: card})
		if err != nil {
			return err
		}
		tbi, tli, err := locate(*next, to)
		if err != nil {
			return err
		}
		if s.scope == types.ScopeList && next.Boards[tbi].Lists[tli].CardIndex(card) >= 0 {
			return fmt.Errorf("%w: card %q in list %s", types.ErrDuplicateTitle, card, to)
		}

		src := &next.Boards[fbi].Lists[fli]
		moved := src.Cards[fci]
		src.Cards = append(src.Cards[:fci], src.Cards[fci+1:]...)
		dst := &next.Boards[tbi].Lists[tli]
		dst.Cards = append(dst.Cards, moved)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("card moved",
		zap.String("card", card),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	return nil
}

// cardTitleTaken reports whether title is already used by a card other than
// self within the configured scope. For the list scope, ref is the list the
// card will live in.
func (s *Store) cardTitleTaken(snap types.Snapshot, ref types.ListRef, title string, self *types.CardRef) bool {
	var candidates []types.CardRef
	if s.scope == types.ScopeList {
		_, _, err := locate(snap, ref)
		if err != nil {
			return false
		}
		for _, r := range snap.FindCards(title) {
			if r.ListRef().Equal(ref) {
				candidates = append(candidates, r)
			}
		}
	} else {
		candidates = snap.FindCards(title)
	}
	for _, r := range candidates {
		if self != nil && r == *self {
			continue
		}
		return true
	}
	return false
}

func (s *Store) boardIndex(title string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.BoardIndex(title)
}

// locate resolves ref to board and list positions in snap.
func locate(snap types.Snapshot, ref types.ListRef) (bi, li int, err error) {
	bi, li, err = snap.Locate(ref)
	if err != nil {
		return bi, li, fmt.Errorf("%w: %s", err, ref)
	}
	return bi, li, nil
}

// locateCard resolves ref to board, list and card positions in snap.
func locateCard(snap types.Snapshot, ref types.CardRef) (bi, li, ci int, err error) {
	bi, li, err = locate(snap, ref.ListRef())
	if err != nil {
		return bi, li, -1, err
	}
	ci = snap.Boards[bi].Lists[li].CardIndex(ref.Card)
	if ci < 0 {
		return bi, li, -1, fmt.Errorf("%w: %s", types.ErrCardNotFound, ref)
	}
	return bi, li, ci, nil
}
