package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"BlockJack/internal/game/dealer"
)

// Action 玩家动作；其它任意值视为 no-op
type Action string

const (
	ActionNone  Action = ""
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)

// Result 一局的结算结果，空串表示尚未结算
type Result string

const (
	ResultNone      Result = ""
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultTie       Result = "tie"
	ResultBlackjack Result = "blackjack"
)

func (r Result) String() string { return string(r) }

func (r Result) Settled() bool { return r != ResultNone }

// MarshalJSON 未结算时输出 null
func (r Result) MarshalJSON() ([]byte, error) {
	if r == ResultNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Result) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ResultNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Result(s)
	return nil
}

var (
	ErrIncompleteSnapshot = errors.New("incomplete snapshot")
	ErrCorruptSnapshot    = errors.New("corrupt snapshot")
)

// Snapshot 一局在两次请求之间唯一需要持久化的状态
type Snapshot struct {
	Deck       []string `json:"deck"`
	PlayerHand []string `json:"player_hand"`
	DealerHand []string `json:"dealer_hand"`
	GameOver   bool     `json:"game_over"`
}

// Validate 检查结构不变量；牌面文本格式由解析阶段负责
func (s *Snapshot) Validate() error {
	if len(s.PlayerHand) == 0 {
		return fmt.Errorf("%w: player hand is empty", ErrIncompleteSnapshot)
	}
	if len(s.DealerHand) == 0 {
		return fmt.Errorf("%w: dealer hand is empty", ErrIncompleteSnapshot)
	}
	total := len(s.Deck) + len(s.PlayerHand) + len(s.DealerHand)
	if total > dealer.DeckSize {
		return fmt.Errorf("%w: %d cards in play", ErrCorruptSnapshot, total)
	}
	seen := make(map[string]struct{}, total)
	for _, group := range [][]string{s.Deck, s.PlayerHand, s.DealerHand} {
		for _, c := range group {
			if _, dup := seen[c]; dup {
				return fmt.Errorf("%w: duplicate card %q", ErrCorruptSnapshot, c)
			}
			seen[c] = struct{}{}
		}
	}
	return nil
}

// State 每次 Play 返回给调用方渲染的结果
type State struct {
	PlayerHand  []string `json:"player_hand"`
	DealerHand  []string `json:"dealer_hand"`
	PlayerScore int      `json:"player_score"`
	DealerScore int      `json:"dealer_score"`
	Result      Result   `json:"result"`
	GameOver    bool     `json:"game_over"`
}
