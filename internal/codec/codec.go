// Package codec converts a store snapshot to and from its serialized
// document. The same document shape is used for the local file and for the
// remote board document; the remote form never carries the password.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Version is the document format version written by Encode.
const Version = 1

// Decode errors. Callers wrap these in the category that fits where the
// bytes came from (local file or remote document).
var (
	ErrMalformed          = errors.New("malformed document")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

type document struct {
	Version  int        `json:"version"`
	Username string     `json:"username"`
	Password string     `json:"password,omitempty"`
	Boards   []boardDoc `json:"boards"`
}

type boardDoc struct {
	Title string    `json:"title"`
	Lists []listDoc `json:"lists"`
}

type listDoc struct {
	Title string    `json:"title"`
	Cards []cardDoc `json:"cards"`
}

type cardDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Encode serializes the full snapshot, credentials included, as indented
// JSON for the local file.
func Encode(s types.Snapshot) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(toDocument(s, true), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// EncodeRemote serializes the snapshot without the password, compactly, for
// the remote board document.
func EncodeRemote(s types.Snapshot) ([]byte, error) {
	data, err := sonic.Marshal(toDocument(s, false))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a document produced by Encode or EncodeRemote. It rejects
// unknown versions, empty titles, duplicate board titles and duplicate list
// titles within a board. Card title uniqueness depends on the configured
// scope and is left to the store.
func Decode(data []byte) (types.Snapshot, error) {
	if strings.TrimSpace(string(data)) == "" {
		return types.Snapshot{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	var doc document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version != Version {
		return types.Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	s := types.Snapshot{
		Credentials: types.Credentials{Username: doc.Username, Password: doc.Password},
		Boards:      make([]types.Board, 0, len(doc.Boards)),
	}
	boardSeen := make(map[string]bool, len(doc.Boards))
	for bi, bd := range doc.Boards {
		title := types.NormalizeTitle(bd.Title)
		if title == "" {
			return types.Snapshot{}, fmt.Errorf("%w: board %d has an empty title", ErrMalformed, bi)
		}
		if boardSeen[title] {
			return types.Snapshot{}, fmt.Errorf("%w: duplicate board %q", ErrMalformed, title)
		}
		boardSeen[title] = true

		board := types.Board{Title: title, Lists: make([]types.List, 0, len(bd.Lists))}
		listSeen := make(map[string]bool, len(bd.Lists))
		for li, ld := range bd.Lists {
			ltitle := types.NormalizeTitle(ld.Title)
			if ltitle == "" {
				return types.Snapshot{}, fmt.Errorf("%w: list %d of board %q has an empty title", ErrMalformed, li, title)
			}
			if listSeen[ltitle] {
				return types.Snapshot{}, fmt.Errorf("%w: duplicate list %q in board %q", ErrMalformed, ltitle, title)
			}
			listSeen[ltitle] = true

			list := types.List{Title: ltitle, Cards: make([]types.Card, 0, len(ld.Cards))}
			for ci, cd := range ld.Cards {
				ctitle := types.NormalizeTitle(cd.Title)
				if ctitle == "" {
					return types.Snapshot{}, fmt.Errorf("%w: card %d of list %q has an empty title", ErrMalformed, ci, ltitle)
				}
				list.Cards = append(list.Cards, types.Card{
					Title:       ctitle,
					Description: cd.Description,
					Date:        cd.Date,
					Time:        cd.Time,
				})
			}
			board.Lists = append(board.Lists, list)
		}
		s.Boards = append(s.Boards, board)
	}
	return s, nil
}

func toDocument(s types.Snapshot, withPassword bool) document {
	doc := document{
		Version:  Version,
		Username: s.Credentials.Username,
		Boards:   make([]boardDoc, 0, len(s.Boards)),
	}
	if withPassword {
		doc.Password = s.Credentials.Password
	}
	for _, b := range s.Boards {
		bd := boardDoc{Title: b.Title, Lists: make([]listDoc, 0, len(b.Lists))}
		for _, l := range b.Lists {
			ld := listDoc{Title: l.Title, Cards: make([]cardDoc, 0, len(l.Cards))}
			for _, c := range l.Cards {
				ld.Cards = append(ld.Cards, cardDoc{
					Title:       c.Title,
					Description: c.Description,
					Date:        c.Date,
					Time:        c.Time,
				})
			}
			bd.Lists = append(bd.Lists, ld)
		}
		doc.Boards = append(doc.Boards, bd)
	}
	return doc
}
