package roundstore

import (
	"context"
	"sync"

	"BlockJack/internal/game/engine"
)

type memStore struct {
	mu     sync.Mutex
	rounds map[string]Record // playerID -> record
}

// NewMemoryStore 单进程开发/测试用
func NewMemoryStore() Store {
	return &memStore{rounds: make(map[string]Record)}
}

func (m *memStore) Load(ctx context.Context, playerID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rounds[playerID]
	if !ok {
		return nil, nil
	}
	rec.Snapshot = cloneSnapshot(rec)
	return &rec, nil
}

func (m *memStore) Save(ctx context.Context, playerID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Snapshot = cloneSnapshot(rec)
	m.rounds[playerID] = rec
	return nil
}

func (m *memStore) Delete(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, playerID)
	return nil
}

// 和 Redis 行为对齐：存进去的是值，不共享底层切片
func cloneSnapshot(rec Record) (s engine.Snapshot) {
	s = rec.Snapshot
	s.Deck = append([]string{}, s.Deck...)
	s.PlayerHand = append([]string{}, s.PlayerHand...)
	s.DealerHand = append([]string{}, s.DealerHand...)
	return s
}
