package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"BlockJack/internal/game/engine"
	"BlockJack/internal/game/table"
	"BlockJack/internal/roundstore"
	"BlockJack/internal/scoreboard"
	"BlockJack/internal/websocket"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Notifier 推送通道，HubInterface 的子集
type Notifier interface {
	SendToPlayer(addr string, msg websocket.OutgoingMessage)
	BroadcastAll(msg websocket.OutgoingMessage)
}

type nopNotifier struct{}

func (nopNotifier) SendToPlayer(string, websocket.OutgoingMessage) {}
func (nopNotifier) BroadcastAll(websocket.OutgoingMessage)         {}

// RoundView 返回给前端的一局视图
type RoundView struct {
	RoundID string `json:"round_id"`
	engine.State
	// Restarted 原快照损坏，已重新发牌
	Restarted bool `json:"restarted"`
}

// GameManager 串起快照存储、引擎和战绩：读快照 -> Play -> 写快照 -> 记战绩
type GameManager struct {
	engine *engine.Engine
	rounds roundstore.Store
	stats  scoreboard.Repo
	hub    Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex // player -> 串行化同一玩家的读-改-写
}

func NewGameManager(eng *engine.Engine, rounds roundstore.Store, stats scoreboard.Repo, hub Notifier) *GameManager {
	if hub == nil {
		hub = nopNotifier{}
	}
	return &GameManager{
		engine: eng,
		rounds: rounds,
		stats:  stats,
		hub:    hub,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (m *GameManager) lock(playerID string) func() {
	m.mu.Lock()
	l, ok := m.locks[playerID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[playerID] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// corrupt 快照里的牌坏了：丢掉重开，而不是让请求失败
func corrupt(err error) bool {
	var fe *table.FormatError
	return errors.As(err, &fe) || errors.Is(err, engine.ErrCorruptSnapshot)
}

// Play 推进该玩家当前的一局；没有快照时发新牌
func (m *GameManager) Play(ctx context.Context, playerID string, action engine.Action) (*RoundView, error) {
	unlock := m.lock(playerID)
	defer unlock()

	rec, err := m.rounds.Load(ctx, playerID)
	if err != nil && !corrupt(err) {
		return nil, fmt.Errorf("load round: %w", err)
	}

	var (
		snap    *engine.Snapshot
		roundID string
		wasOver bool
		st      engine.State
		next    engine.Snapshot
	)
	if err == nil {
		if rec != nil {
			snap, roundID, wasOver = &rec.Snapshot, rec.RoundID, rec.Snapshot.GameOver
		}
		st, next, err = m.engine.Play(action, snap)
		if err != nil && !corrupt(err) {
			return nil, err
		}
	}

	restarted := err != nil
	if restarted {
		log.Warn("corrupt round snapshot, dealing a new round", "player", playerID, "round", roundID, "err", err)
		roundID, wasOver = "", false
		if st, next, err = m.engine.Play(engine.ActionNone, nil); err != nil {
			return nil, err
		}
	}

	if roundID == "" {
		roundID = uuid.NewString()
	}
	if err := m.rounds.Save(ctx, playerID, roundstore.Record{RoundID: roundID, Snapshot: next}); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}

	view := &RoundView{RoundID: roundID, State: st, Restarted: restarted}

	// 已结算的快照再次请求会得到同样的结果，只在结算的那一步记一次
	if st.Result.Settled() && !wasOver {
		if err := m.settle(ctx, playerID, view); err != nil {
			return nil, err
		}
	}

	m.hub.SendToPlayer(playerID, websocket.OutgoingMessage{Event: websocket.EventRound, Data: view})
	return view, nil
}

func (m *GameManager) settle(ctx context.Context, playerID string, view *RoundView) error {
	if err := m.stats.Record(ctx, playerID, view.Result); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	stats, err := m.stats.Get(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	log.Info("round settled", "player", playerID, "round", view.RoundID, "result", view.Result,
		"player_score", view.PlayerScore, "dealer_score", view.DealerScore)

	m.hub.SendToPlayer(playerID, websocket.OutgoingMessage{
		Event: websocket.EventRoundSettled,
		Data: map[string]any{
			"round_id": view.RoundID,
			"result":   view.Result,
			"stats":    stats,
		},
	})
	m.hub.BroadcastAll(websocket.OutgoingMessage{Event: websocket.EventScoreboard, Data: stats})
	return nil
}

// Reset 丢弃快照，下一次 Play 发新牌
func (m *GameManager) Reset(ctx context.Context, playerID string) error {
	unlock := m.lock(playerID)
	defer unlock()

	if err := m.rounds.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("reset round: %w", err)
	}
	m.hub.SendToPlayer(playerID, websocket.OutgoingMessage{Event: websocket.EventReset, Data: map[string]any{"ok": true}})
	return nil
}

func (m *GameManager) Stats(ctx context.Context, playerID string) (scoreboard.Stats, error) {
	return m.stats.Get(ctx, playerID)
}

func (m *GameManager) Scoreboard(ctx context.Context, limit int) ([]scoreboard.Stats, error) {
	return m.stats.List(ctx, limit)
}

// HandlePlayerMessage WebSocket 入口（Hub.OnIncoming）
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	ctx := context.Background()
	var err error

	switch msg.Event {
	case "hit":
		_, err = m.Play(ctx, msg.From, engine.ActionHit)
	case "stand":
		_, err = m.Play(ctx, msg.From, engine.ActionStand)
	case "deal":
		_, err = m.Play(ctx, msg.From, engine.ActionNone)
	case "reset":
		err = m.Reset(ctx, msg.From)
	default:
		err = fmt.Errorf("unknown event %q", msg.Event)
	}

	if err != nil {
		log.Error("player message failed", "player", msg.From, "event", msg.Event, "err", err)
		m.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
			Event: websocket.EventError,
			Data:  map[string]any{"event": msg.Event, "error": err.Error()},
		})
	}
}
