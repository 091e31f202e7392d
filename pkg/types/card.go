package types

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Layouts used for a card's Date and Time fields.
const (
	DateLayout = "02-01-2006"
	TimeLayout = "15:04"
)

// Card is a single work item. A card has no ID; its Title is its identity.
type Card struct {
	Title       string // Required, non-empty after trimming.
	Description string // Free text; may contain markdown.
	Date        string // Calendar date in DateLayout.
	Time        string // Clock time in TimeLayout.
}

// NewCard returns a card with the given title, an empty description and its
// date and time set from now.
func NewCard(title string, now time.Time) Card {
	return Card{
		Title: NormalizeTitle(title),
		Date:  now.Format(DateLayout),
		Time:  now.Format(TimeLayout),
	}
}

// Validate checks the title, the description encoding and, when present,
// the date and time layouts.
func (c Card) Validate() error {
	_, err := c.Canonical()
	return err
}

// Canonical returns the card as it is stored: title trimmed, date and time
// reformatted in their layouts. It fails with the same errors as Validate.
func (c Card) Canonical() (Card, error) {
	title, err := CheckTitle(c.Title)
	if err != nil {
		return Card{}, err
	}
	if !utf8.ValidString(c.Description) {
		return Card{}, ErrInvalidText
	}
	out := Card{Title: title, Description: c.Description}
	if c.Date != "" {
		d, err := ParseDate(c.Date)
		if err != nil {
			return Card{}, err
		}
		out.Date = d.Format(DateLayout)
	}
	if c.Time != "" {
		t, err := ParseClock(c.Time)
		if err != nil {
			return Card{}, err
		}
		out.Time = t.Format(TimeLayout)
	}
	return out, nil
}

// When combines Date and Time into a single instant in loc. A card with an
// empty Time is treated as midnight.
func (c Card) When(loc *time.Location) (time.Time, error) {
	d, err := ParseDate(c.Date)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute := 0, 0
	if c.Time != "" {
		t, err := ParseClock(c.Time)
		if err != nil {
			return time.Time{}, err
		}
		hour, minute = t.Hour(), t.Minute()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// ParseDate parses a dd-mm-yyyy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseClock parses an HH:MM clock time.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return t, nil
}

// NormalizeTitle trims surrounding whitespace. Titles are compared after
// normalization, so "  Todo " and "Todo" are the same title.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// CheckTitle normalizes title and rejects it when it is empty or not valid
// UTF-8.
func CheckTitle(title string) (string, error) {
	title = NormalizeTitle(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if !utf8.ValidString(title) {
		return "", ErrInvalidText
	}
	return title, nil
}
