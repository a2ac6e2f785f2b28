package engine

import (
	"fmt"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/table"

	"github.com/charmbracelet/log"
)

// ---------------------
//       ENGINE
// ---------------------

// Engine 无状态：每次调用从快照重建牌局，推进后输出新快照
type Engine struct {
	Dealer *dealer.Dealer
}

func NewEngine(d *dealer.Dealer) *Engine {
	return &Engine{Dealer: d}
}

// round 一次调用内的内存态
type round struct {
	deck     *dealer.Deck
	player   *table.Hand
	dealer   *table.Hand
	gameOver bool
	result   Result
}

// Play 处理一步：snap 为 nil 时发新牌局
func (e *Engine) Play(action Action, snap *Snapshot) (State, Snapshot, error) {
	var (
		r   *round
		err error
	)
	if snap == nil {
		r = e.deal()
	} else {
		r, err = restore(snap)
		if err != nil {
			return State{}, Snapshot{}, err
		}
	}

	// 玩家回合
	if !r.gameOver {
		switch action {
		case ActionHit:
			dealer.Hit(r.player, r.deck)
		case ActionStand:
			r.gameOver = true
		}
		if r.player.Busted() {
			r.gameOver = true
		}
	}

	// 庄家回合
	if r.gameOver && !r.result.Settled() {
		if !r.player.Busted() {
			drawn := dealer.PlayOut(r.dealer, r.deck)
			log.Debug("dealer played out", "drawn", drawn, "score", r.dealer.Score)
		}
		r.result = Resolve(r.player.Score, r.dealer.Score, r.player.Len())
	}

	return r.state(), r.snapshot(), nil
}

// ---------------------
//   RECONSTRUCTION
// ---------------------

func (e *Engine) deal() *round {
	r := &round{
		deck:   e.Dealer.NewDeck(),
		player: table.NewHand(),
		dealer: table.NewHand(),
	}
	e.Dealer.DealInitial(r.dealer, r.player, r.deck)

	r.result = instantResult(r.player.Score, r.player.Len(), r.dealer.Score, r.dealer.Len())
	r.gameOver = r.result.Settled()
	if r.gameOver {
		log.Debug("instant result on deal", "result", r.result,
			"player", r.player.Strings(), "dealer", r.dealer.Strings())
	}
	return r
}

func restore(snap *Snapshot) (*round, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	deck, err := dealer.ParseDeck(snap.Deck)
	if err != nil {
		return nil, fmt.Errorf("restore deck: %w", err)
	}
	player, err := table.ParseHand(snap.PlayerHand)
	if err != nil {
		return nil, fmt.Errorf("restore player hand: %w", err)
	}
	dh, err := table.ParseHand(snap.DealerHand)
	if err != nil {
		return nil, fmt.Errorf("restore dealer hand: %w", err)
	}
	return &round{deck: deck, player: player, dealer: dh, gameOver: snap.GameOver}, nil
}

func (r *round) state() State {
	return State{
		PlayerHand:  r.player.Strings(),
		DealerHand:  r.dealer.Strings(),
		PlayerScore: r.player.Score,
		DealerScore: r.dealer.Score,
		Result:      r.result,
		GameOver:    r.gameOver,
	}
}

func (r *round) snapshot() Snapshot {
	return Snapshot{
		Deck:       r.deck.Strings(),
		PlayerHand: r.player.Strings(),
		DealerHand: r.dealer.Strings(),
		GameOver:   r.gameOver,
	}
}
