package dealer

import (
	"errors"
	"math/rand"
	"time"

	"BlockJack/internal/game/table"

	"github.com/charmbracelet/log"
)

// DeckSize 单副牌
const DeckSize = 52

// StandOn 庄家分数 >= 17 即停牌（不区分 soft 17）
const StandOn = 17

var ErrEmptyDeck = errors.New("deck is empty")

// Shuffler *rand.Rand 满足该接口；测试里可以注入固定牌序
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck 有序的牌堆，从队首抽牌
type Deck struct {
	cards []table.Card
}

// NewDeck 生成 canonical 顺序的 52 张：Hearts, Diamonds, Clubs, Spades，每个花色 Ace..King
func NewDeck() *Deck {
	cards := make([]table.Card, 0, DeckSize)
	for _, s := range table.Suits() {
		for _, r := range table.Ranks() {
			cards = append(cards, table.Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// DeckFrom 用已有牌序构建（快照恢复），不会洗牌
func DeckFrom(cards []table.Card) *Deck {
	return &Deck{cards: append([]table.Card(nil), cards...)}
}

func ParseDeck(texts []string) (*Deck, error) {
	cards, err := table.ParseCards(texts)
	if err != nil {
		return nil, err
	}
	return &Deck{cards: cards}, nil
}

// Shuffle 只在整副 52 张时洗牌；缺牌时记 warning 并保持原序
func (d *Deck) Shuffle(r Shuffler) bool {
	if len(d.cards) != DeckSize {
		log.Warn("cards are missing, shuffle skipped", "cards", len(d.cards))
		return false
	}
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return true
}

// Draw 取出队首一张
func (d *Deck) Draw() (table.Card, error) {
	if len(d.cards) == 0 {
		return table.Card{}, ErrEmptyDeck
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

func (d *Deck) Len() int { return len(d.cards) }

func (d *Deck) Cards() []table.Card { return append([]table.Card(nil), d.cards...) }

func (d *Deck) Strings() []string { return table.CardStrings(d.cards) }

// Dealer 负责洗牌、发牌、庄家自动补牌
type Dealer struct {
	rnd Shuffler
}

func NewDealer(seed int64) *Dealer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Dealer{rnd: rand.New(rand.NewSource(seed))}
}

func NewDealerWith(s Shuffler) *Dealer {
	return &Dealer{rnd: s}
}

// NewDeck 新一局：生成并洗牌
func (d *Dealer) NewDeck() *Deck {
	deck := NewDeck()
	deck.Shuffle(d.rnd)
	return deck
}

// Hit 抽一张给 hand；牌堆空时 hand 不变
func Hit(h *table.Hand, deck *Deck) bool {
	c, err := deck.Draw()
	if err != nil {
		log.Warn("no card to deal", "err", err, "hand", h.Strings())
		return false
	}
	h.Add(c)
	return true
}

// DealInitial 两轮，每轮先庄家后玩家
func (d *Dealer) DealInitial(dealerHand, playerHand *table.Hand, deck *Deck) {
	for i := 0; i < 2; i++ {
		Hit(dealerHand, deck)
		Hit(playerHand, deck)
	}
}

// PlayOut 庄家回合：低于 StandOn 一直补牌，返回补了几张
func PlayOut(h *table.Hand, deck *Deck) int {
	drawn := 0
	h.Recalculate()
	for h.Score < StandOn {
		if !Hit(h, deck) {
			break
		}
		drawn++
	}
	return drawn
}
