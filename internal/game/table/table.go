package table

import (
	"fmt"
	"strings"
)

// Suit 花色，按 canonical 顺序排列（发牌前的牌序就是 suit-major）
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Rank 点数 Ace..King
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var suitNames = []string{"Hearts", "Diamonds", "Clubs", "Spades"}

var rankNames = []string{
	"", "Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Jack", "Queen", "King",
}

// Suits / Ranks 按 canonical 顺序返回全部取值
func Suits() []Suit { return []Suit{Hearts, Diamonds, Clubs, Spades} }

func Ranks() []Rank {
	out := make([]Rank, 0, 13)
	for r := Ace; r <= King; r++ {
		out = append(out, r)
	}
	return out
}

func (s Suit) String() string {
	if s < Hearts || s > Spades {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

func (r Rank) String() string {
	if r < Ace || r > King {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Value 单张牌的基础点数；Ace 在这里记 11，实际取 11 还是 1 由 Score 决定
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// Card 不可变的一张牌
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

const separator = " of "

// String 线上格式 "<Rank> of <Suit>"，ParseCard 是它的严格逆运算
func (c Card) String() string {
	return c.Rank.String() + separator + c.Suit.String()
}

// FormatError 牌面文本不符合 "<rank> of <suit>"
type FormatError struct {
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid card format %q: %s", e.Text, e.Reason)
}

// ParseCard 例如 "Ace of Spades"
func ParseCard(text string) (Card, error) {
	parts := strings.Split(text, separator)
	if len(parts) != 2 {
		return Card{}, &FormatError{Text: text, Reason: `want exactly one " of " separator`}
	}
	rank, ok := parseRank(parts[0])
	if !ok {
		return Card{}, &FormatError{Text: text, Reason: fmt.Sprintf("unknown rank %q", parts[0])}
	}
	suit, ok := parseSuit(parts[1])
	if !ok {
		return Card{}, &FormatError{Text: text, Reason: fmt.Sprintf("unknown suit %q", parts[1])}
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func parseRank(s string) (Rank, bool) {
	for i := int(Ace); i <= int(King); i++ {
		if rankNames[i] == s {
			return Rank(i), true
		}
	}
	return 0, false
}

func parseSuit(s string) (Suit, bool) {
	for i, name := range suitNames {
		if name == s {
			return Suit(i), true
		}
	}
	return 0, false
}

// ParseCards 按顺序解析，第一张坏牌即返回错误
func ParseCards(texts []string) ([]Card, error) {
	out := make([]Card, 0, len(texts))
	for _, t := range texts {
		c, err := ParseCard(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CardStrings 转成线上格式
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
