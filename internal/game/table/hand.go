package table

// Hand 玩家和庄家共用的手牌结构：发牌顺序 + 缓存的分数
type Hand struct {
	Cards []Card `json:"cards"`
	Score int    `json:"score"`
}

func NewHand(cards ...Card) *Hand {
	h := &Hand{Cards: append([]Card(nil), cards...)}
	h.Recalculate()
	return h
}

// ParseHand 从快照里的牌面文本重建手牌，分数重新计算，不信任存储
func ParseHand(texts []string) (*Hand, error) {
	cards, err := ParseCards(texts)
	if err != nil {
		return nil, err
	}
	return NewHand(cards...), nil
}

// Add 加一张牌并立即刷新分数
func (h *Hand) Add(c Card) {
	h.Cards = append(h.Cards, c)
	h.Recalculate()
}

func (h *Hand) Recalculate() int {
	h.Score = Score(h.Cards)
	return h.Score
}

func (h *Hand) Len() int { return len(h.Cards) }

func (h *Hand) Busted() bool { return h.Score > 21 }

// Natural 头两张即 21
func (h *Hand) Natural() bool { return len(h.Cards) == 2 && h.Score == 21 }

func (h *Hand) Strings() []string { return CardStrings(h.Cards) }

// Score 按手牌顺序逐张累加。
// Ace 在累加到它之前总分 < 11 时记 11，否则记 1；已经记成 11 的 Ace 之后不会再降为 1。
func Score(cards []Card) int {
	score := 0
	for _, c := range cards {
		if c.Rank == Ace {
			if score < 11 {
				score += 11
			} else {
				score++
			}
			continue
		}
		score += c.Rank.Value()
	}
	return score
}
