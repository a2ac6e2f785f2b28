package roundstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"BlockJack/internal/game/engine"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore ttl 为 0 时快照不过期
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

// key 约定：
//
//	kv: bj:round:{playerID} -> JSON(Record)
func roundKey(playerID string) string {
	return fmt.Sprintf("bj:round:%s", playerID)
}

// storedRecord 用指针字段区分「字段缺失」和「空值」
type storedRecord struct {
	RoundID  string `json:"round_id"`
	Snapshot *struct {
		Deck       *[]string `json:"deck"`
		PlayerHand *[]string `json:"player_hand"`
		DealerHand *[]string `json:"dealer_hand"`
		GameOver   *bool     `json:"game_over"`
	} `json:"snapshot"`
}

func decodeRecord(data []byte) (*Record, error) {
	var raw storedRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrCorruptSnapshot, err)
	}
	s := raw.Snapshot
	switch {
	case s == nil:
		return nil, fmt.Errorf("%w: missing snapshot", engine.ErrIncompleteSnapshot)
	case s.Deck == nil:
		return nil, fmt.Errorf("%w: missing deck", engine.ErrIncompleteSnapshot)
	case s.PlayerHand == nil:
		return nil, fmt.Errorf("%w: missing player_hand", engine.ErrIncompleteSnapshot)
	case s.DealerHand == nil:
		return nil, fmt.Errorf("%w: missing dealer_hand", engine.ErrIncompleteSnapshot)
	case s.GameOver == nil:
		return nil, fmt.Errorf("%w: missing game_over", engine.ErrIncompleteSnapshot)
	}
	return &Record{
		RoundID: raw.RoundID,
		Snapshot: engine.Snapshot{
			Deck:       *s.Deck,
			PlayerHand: *s.PlayerHand,
			DealerHand: *s.DealerHand,
			GameOver:   *s.GameOver,
		},
	}, nil
}

func (r *redisStore) Load(ctx context.Context, playerID string) (*Record, error) {
	data, err := r.rdb.Get(ctx, roundKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}

func (r *redisStore) Save(ctx context.Context, playerID string, rec Record) error {
	rec.Snapshot = cloneSnapshot(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, roundKey(playerID), data, r.ttl).Err()
}

func (r *redisStore) Delete(ctx context.Context, playerID string) error {
	return r.rdb.Del(ctx, roundKey(playerID)).Err()
}
