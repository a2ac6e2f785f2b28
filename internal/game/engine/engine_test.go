package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stacked 把指定的牌依次换到牌堆最前面，其余保持 canonical 顺序
type stacked []table.Card

func (s stacked) Shuffle(n int, swap func(i, j int)) {
	local := dealer.NewDeck().Cards()
	for i, want := range s {
		for j := i; j < n; j++ {
			if local[j] == want {
				swap(i, j)
				local[i], local[j] = local[j], local[i]
				break
			}
		}
	}
}

func c(r table.Rank, s table.Suit) table.Card { return table.Card{Rank: r, Suit: s} }

// 发牌顺序：庄家 0、玩家 1、庄家 2、玩家 3，之后依次是补牌
func stackedEngine(cards ...table.Card) *Engine {
	return NewEngine(dealer.NewDealerWith(stacked(cards)))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		player, dealer, size int
		want                 Result
	}{
		{20, 18, 2, ResultWin},
		{18, 20, 2, ResultLoss},
		{20, 20, 2, ResultTie},
		{22, 18, 2, ResultLoss},
		{21, 20, 2, ResultWin},
		{15, 22, 3, ResultWin},
		{22, 22, 3, ResultTie},
		// 已知行为：21 对 21 时 tie 分支优先，blackjack 分支走不到
		{21, 21, 2, ResultTie},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.player, tt.dealer, tt.size), "%d vs %d (%d cards)", tt.player, tt.dealer, tt.size)
	}
}

func TestFreshDealPlayerBlackjack(t *testing.T) {
	eng := stackedEngine(
		c(table.Ten, table.Hearts), c(table.Ace, table.Spades),
		c(table.Seven, table.Hearts), c(table.King, table.Spades),
	)

	st, snap, err := eng.Play(ActionHit, nil)
	require.NoError(t, err)

	assert.Equal(t, ResultBlackjack, st.Result)
	assert.True(t, st.GameOver)
	assert.True(t, snap.GameOver)
	assert.Equal(t, []string{"Ace of Spades", "King of Spades"}, st.PlayerHand)
	assert.Equal(t, []string{"Ten of Hearts", "Seven of Hearts"}, st.DealerHand)
	assert.Equal(t, 21, st.PlayerScore)
	assert.Equal(t, 17, st.DealerScore)
	assert.Len(t, snap.Deck, 48)
}

func TestFreshDealDealerNatural(t *testing.T) {
	eng := stackedEngine(
		c(table.Ace, table.Hearts), c(table.Ten, table.Spades),
		c(table.King, table.Hearts), c(table.Nine, table.Spades),
	)

	st, snap, err := eng.Play(ActionNone, nil)
	require.NoError(t, err)
	assert.Equal(t, ResultLoss, st.Result)
	assert.True(t, snap.GameOver)
	assert.Len(t, st.DealerHand, 2)
	assert.Len(t, snap.Deck, 48)
}

// 已知行为：双方都是 natural 时不立即结算，继续游戏
func TestFreshDealBothNaturalContinues(t *testing.T) {
	eng := stackedEngine(
		c(table.Ace, table.Hearts), c(table.Ace, table.Spades),
		c(table.King, table.Hearts), c(table.King, table.Spades),
	)

	st, snap, err := eng.Play(ActionNone, nil)
	require.NoError(t, err)
	assert.Equal(t, ResultNone, st.Result)
	assert.False(t, st.GameOver)
	assert.False(t, snap.GameOver)

	st, snap, err = eng.Play(ActionStand, &snap)
	require.NoError(t, err)
	assert.Equal(t, ResultTie, st.Result)
	assert.True(t, snap.GameOver)
	assert.Len(t, st.DealerHand, 2)
}

func TestStandDealerOn16Draws(t *testing.T) {
	eng := stackedEngine(
		c(table.Ten, table.Hearts), c(table.Ten, table.Spades),
		c(table.Six, table.Hearts), c(table.Nine, table.Spades),
		c(table.Five, table.Clubs),
	)

	st, snap, err := eng.Play(ActionStand, nil)
	require.NoError(t, err)
	assert.True(t, st.GameOver)
	assert.Equal(t, []string{"Ten of Hearts", "Six of Hearts", "Five of Clubs"}, st.DealerHand)
	assert.Equal(t, 21, st.DealerScore)
	assert.Equal(t, 19, st.PlayerScore)
	assert.Equal(t, ResultLoss, st.Result)
	assert.Len(t, snap.Deck, 47)
}

func TestStandDealerOn17DrawsNothing(t *testing.T) {
	eng := stackedEngine(
		c(table.Ten, table.Hearts), c(table.Ten, table.Spades),
		c(table.Seven, table.Hearts), c(table.Nine, table.Spades),
	)

	st, snap, err := eng.Play(ActionStand, nil)
	require.NoError(t, err)
	assert.Len(t, st.DealerHand, 2)
	assert.Equal(t, 17, st.DealerScore)
	assert.Equal(t, ResultWin, st.Result)
	assert.Len(t, snap.Deck, 48)
}

func TestHitBustSkipsDealer(t *testing.T) {
	eng := stackedEngine(
		c(table.Ten, table.Hearts), c(table.Ten, table.Spades),
		c(table.Two, table.Hearts), c(table.Six, table.Spades),
		c(table.King, table.Clubs),
	)

	st, snap, err := eng.Play(ActionHit, nil)
	require.NoError(t, err)
	assert.Equal(t, 26, st.PlayerScore)
	assert.True(t, st.GameOver)
	assert.Equal(t, ResultLoss, st.Result)
	// 玩家爆牌，庄家 12 也不再补牌
	assert.Len(t, st.DealerHand, 2)
	assert.Len(t, snap.Deck, 47)
}

func TestMultiStepRound(t *testing.T) {
	eng := stackedEngine(
		c(table.Ten, table.Hearts), c(table.Five, table.Spades),
		c(table.Eight, table.Hearts), c(table.Four, table.Spades),
		c(table.Six, table.Clubs),
	)

	st, snap, err := eng.Play(ActionNone, nil)
	require.NoError(t, err)
	assert.False(t, st.GameOver)
	assert.Equal(t, 9, st.PlayerScore)

	st, snap, err = eng.Play(ActionHit, &snap)
	require.NoError(t, err)
	assert.False(t, st.GameOver)
	assert.Equal(t, 15, st.PlayerScore)
	assert.Equal(t, []string{"Five of Spades", "Four of Spades", "Six of Clubs"}, st.PlayerHand)

	st, snap, err = eng.Play(ActionStand, &snap)
	require.NoError(t, err)
	assert.True(t, st.GameOver)
	assert.Equal(t, 18, st.DealerScore)
	assert.Equal(t, ResultLoss, st.Result)
	assert.Len(t, snap.Deck, 47)
}

// ✅ 快照往返：输出喂回去，牌序与手牌完全一致
func TestSnapshotRoundTrip(t *testing.T) {
	eng := stackedEngine(
		c(table.Two, table.Hearts), c(table.Three, table.Spades),
		c(table.Four, table.Hearts), c(table.Five, table.Spades),
	)
	st1, snap1, err := eng.Play(ActionNone, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(snap1)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	st2, snap2, err := eng.Play(Action("dance"), &decoded)
	require.NoError(t, err)
	assert.Equal(t, st1, st2)
	assert.Equal(t, snap1, snap2)
}

func TestUnknownActionIsNoop(t *testing.T) {
	snap := Snapshot{
		Deck:       []string{"King of Clubs"},
		PlayerHand: []string{"Ten of Spades", "Two of Spades"},
		DealerHand: []string{"Ten of Hearts", "Seven of Hearts"},
	}
	st, next, err := NewEngine(dealer.NewDealer(1)).Play(Action("double"), &snap)
	require.NoError(t, err)
	assert.False(t, st.GameOver)
	assert.Equal(t, snap, next)
}

func TestSettledSnapshotReplaysResult(t *testing.T) {
	snap := Snapshot{
		Deck:       []string{"Two of Clubs"},
		PlayerHand: []string{"Ten of Spades", "Nine of Spades"},
		DealerHand: []string{"Ten of Hearts", "Seven of Hearts"},
		GameOver:   true,
	}
	st, next, err := NewEngine(dealer.NewDealer(1)).Play(ActionHit, &snap)
	require.NoError(t, err)
	assert.Equal(t, ResultWin, st.Result)
	assert.Equal(t, snap, next)
}

// ✅ 牌堆耗尽：hit 拿不到牌，但不报错
func TestHitOnExhaustedDeck(t *testing.T) {
	snap := Snapshot{
		Deck:       []string{},
		PlayerHand: []string{"Two of Spades", "Two of Clubs"},
		DealerHand: []string{"Ten of Hearts", "Seven of Hearts"},
	}
	st, next, err := NewEngine(dealer.NewDealer(1)).Play(ActionHit, &snap)
	require.NoError(t, err)
	assert.Len(t, st.PlayerHand, 2)
	assert.False(t, st.GameOver)
	assert.Empty(t, next.Deck)
}

func TestDealerStopsOnExhaustedDeck(t *testing.T) {
	snap := Snapshot{
		Deck:       []string{"Two of Diamonds"},
		PlayerHand: []string{"Ten of Spades", "Eight of Spades"},
		DealerHand: []string{"Ten of Hearts", "Two of Hearts"},
	}
	st, next, err := NewEngine(dealer.NewDealer(1)).Play(ActionStand, &snap)
	require.NoError(t, err)
	assert.Equal(t, 14, st.DealerScore)
	assert.Equal(t, ResultWin, st.Result)
	assert.Empty(t, next.Deck)
}

func TestMalformedSnapshot(t *testing.T) {
	snap := Snapshot{
		Deck:       []string{"King of Clubs"},
		PlayerHand: []string{"Ten of Spades", "Two-of-Spades"},
		DealerHand: []string{"Ten of Hearts", "Seven of Hearts"},
	}
	_, _, err := NewEngine(dealer.NewDealer(1)).Play(ActionHit, &snap)
	var fe *table.FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, "Two-of-Spades", fe.Text)
}

func TestInvalidSnapshots(t *testing.T) {
	eng := NewEngine(dealer.NewDealer(1))

	_, _, err := eng.Play(ActionNone, &Snapshot{DealerHand: []string{"Ten of Hearts"}})
	assert.ErrorIs(t, err, ErrIncompleteSnapshot)

	_, _, err = eng.Play(ActionNone, &Snapshot{PlayerHand: []string{"Ten of Hearts"}})
	assert.ErrorIs(t, err, ErrIncompleteSnapshot)

	_, _, err = eng.Play(ActionNone, &Snapshot{
		Deck:       []string{"Ten of Hearts"},
		PlayerHand: []string{"Ten of Hearts", "Two of Clubs"},
		DealerHand: []string{"Nine of Hearts", "Seven of Hearts"},
	})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	full := Snapshot{
		Deck:       dealer.NewDeck().Strings(),
		PlayerHand: []string{"Ten of Hearts"},
		DealerHand: []string{"Nine of Hearts"},
	}
	_, _, err = eng.Play(ActionNone, &full)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestFreshDealUsesWholeDeck(t *testing.T) {
	st, snap, err := NewEngine(dealer.NewDealer(2024)).Play(ActionNone, nil)
	require.NoError(t, err)
	assert.Len(t, st.PlayerHand, 2)
	assert.Len(t, st.DealerHand, 2)

	all := append(append(append([]string{}, snap.Deck...), snap.PlayerHand...), snap.DealerHand...)
	assert.ElementsMatch(t, dealer.NewDeck().Strings(), all)
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(State{})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"result":null`)

	b, err = json.Marshal(State{Result: ResultBlackjack})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"result":"blackjack"`)

	var st State
	require.NoError(t, json.Unmarshal([]byte(`{"result":null}`), &st))
	assert.Equal(t, ResultNone, st.Result)
}
