package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ✅ 所有 52 张牌的文本都能原样解析回来
func TestCardRoundTrip(t *testing.T) {
	for _, s := range Suits() {
		for _, r := range Ranks() {
			c := Card{Rank: r, Suit: s}
			parsed, err := ParseCard(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "Ace of Spades", Card{Rank: Ace, Suit: Spades}.String())
	assert.Equal(t, "Ten of Hearts", Card{Rank: Ten, Suit: Hearts}.String())
	assert.Equal(t, "Queen of Diamonds", Card{Rank: Queen, Suit: Diamonds}.String())
}

func TestParseCardErrors(t *testing.T) {
	cases := []string{
		"",
		"Ace",
		"Ace-of-Spades",
		"Ace of Spades of Hearts",
		"One of Spades",
		"Ace of Stars",
		"ace of spades",
	}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			_, err := ParseCard(text)
			require.Error(t, err)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "want FormatError, got %T", err)
			assert.Equal(t, text, fe.Text)
		})
	}
}

func TestParseCardsStopsAtFirstBadCard(t *testing.T) {
	_, err := ParseCards([]string{"Two of Clubs", "Joker", "Ace of Spades"})
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Joker", fe.Text)
}

func TestScore(t *testing.T) {
	c := func(r Rank) Card { return Card{Rank: r, Suit: Clubs} }
	tests := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"empty", nil, 0},
		{"two aces", []Card{c(Ace), c(Ace)}, 12},
		{"natural", []Card{c(Ace), c(King)}, 21},
		{"ace nine ace", []Card{c(Ace), c(Nine), c(Ace)}, 21},
		{"ten ten five", []Card{c(Ten), c(Ten), c(Five)}, 25},
		{"faces", []Card{c(Jack), c(Queen)}, 20},
		{"ten then ace", []Card{c(Ten), c(Ace)}, 21},
		{"eleven then ace", []Card{c(Nine), c(Two), c(Ace)}, 12},
		{"soft ace never demoted", []Card{c(Ace), c(Five), c(Ten)}, 26},
		{"low cards", []Card{c(Two), c(Three), c(Four)}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.cards))
		})
	}
}

func TestHandAddRecalculates(t *testing.T) {
	h := NewHand()
	assert.Equal(t, 0, h.Score)

	h.Add(Card{Rank: Ace, Suit: Hearts})
	assert.Equal(t, 11, h.Score)
	h.Add(Card{Rank: King, Suit: Hearts})
	assert.Equal(t, 21, h.Score)
	assert.True(t, h.Natural())

	h.Add(Card{Rank: Two, Suit: Hearts})
	assert.Equal(t, 23, h.Score)
	assert.True(t, h.Busted())
	assert.False(t, h.Natural())
}

func TestParseHandKeepsOrder(t *testing.T) {
	texts := []string{"Nine of Clubs", "Ace of Hearts", "Ace of Spades"}
	h, err := ParseHand(texts)
	require.NoError(t, err)
	assert.Equal(t, texts, h.Strings())
	assert.Equal(t, 21, h.Score)
}
