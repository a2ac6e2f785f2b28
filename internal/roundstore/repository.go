package roundstore

import (
	"context"

	"BlockJack/internal/game/engine"
)

// Record 每个玩家当前这一局：快照 + 仅用于展示/日志的 round id
type Record struct {
	RoundID  string          `json:"round_id"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// Store 按玩家身份存取当前牌局快照。
// 读-改-写的原子性由调用方（GameManager）负责。
type Store interface {
	// Load 不存在时返回 nil, nil
	Load(ctx context.Context, playerID string) (*Record, error)
	Save(ctx context.Context, playerID string, rec Record) error
	// Delete 重置牌局；不存在也不报错
	Delete(ctx context.Context, playerID string) error
}
