package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	now := time.Date(2026, time.March, 4, 7, 5, 0, 0, time.UTC)
	c := NewCard("  Groceries ", now)
	assert.Equal(t, Card{Title: "Groceries", Date: "04-03-2026", Time: "07:05"}, c)
}

func TestCardValidate(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want error
	}{
		{"title only", Card{Title: "a"}, nil},
		{"full card", Card{Title: "a", Description: "*x*", Date: "29-02-2028", Time: "23:59"}, nil},
		{"padded date and time", Card{Title: "a", Date: " 01-01-2026 ", Time: " 8:00"}, nil},
		{"empty title", Card{}, ErrEmptyTitle},
		{"blank title", Card{Title: " \t "}, ErrEmptyTitle},
		{"invalid title bytes", Card{Title: "a\xff"}, ErrInvalidText},
		{"invalid description bytes", Card{Title: "a", Description: "\xc3("}, ErrInvalidText},
		{"iso date", Card{Title: "a", Date: "2026-01-01"}, ErrInvalidDate},
		{"no leap day", Card{Title: "a", Date: "29-02-2026"}, ErrInvalidDate},
		{"blank date", Card{Title: "a", Date: "  "}, ErrInvalidDate},
		{"hour out of range", Card{Title: "a", Time: "24:00"}, ErrInvalidTime},
		{"twelve hour clock", Card{Title: "a", Time: "9pm"}, ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCardCanonical(t *testing.T) {
	got, err := Card{Title: " a ", Description: " keep ", Date: " 05-01-2026", Time: "7:05 "}.Canonical()
	require.NoError(t, err)
	assert.Equal(t, Card{Title: "a", Description: " keep ", Date: "05-01-2026", Time: "07:05"}, got)

	got, err = Card{Title: "a"}.Canonical()
	require.NoError(t, err)
	assert.Equal(t, Card{Title: "a"}, got, "empty date and time stay empty")
}

func TestCardWhen(t *testing.T) {
	loc := time.FixedZone("X", 3600)

	got, err := Card{Title: "a", Date: "19-10-2026", Time: "09:30"}.When(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 19, 9, 30, 0, 0, loc), got)

	got, err = Card{Title: "a", Date: "19-10-2026"}.When(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, loc), got)

	_, err = Card{Title: "a"}.When(loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCheckTitle(t *testing.T) {
	got, err := CheckTitle("  Todo\n")
	require.NoError(t, err)
	assert.Equal(t, "Todo", got)

	got, err = CheckTitle(" 日本語 😀 ")
	require.NoError(t, err)
	assert.Equal(t, "日本語 😀", got)

	_, err = CheckTitle(" ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = CheckTitle("\xff")
	assert.ErrorIs(t, err, ErrInvalidText)
}
