package scoreboard

import (
	"context"
	"sort"
	"sync"

	"BlockJack/internal/game/engine"
)

type memRepo struct {
	mu    sync.Mutex
	stats map[string]Stats
}

func NewMemoryRepo() Repo {
	return &memRepo{stats: make(map[string]Stats)}
}

func (m *memRepo) Record(ctx context.Context, playerID string, result engine.Result) error {
	d, err := Delta(result)
	if err != nil || !result.Settled() {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats[playerID]
	s.PlayerID = playerID
	s.Wins += d.Wins
	s.Losses += d.Losses
	s.Blackjacks += d.Blackjacks
	s.Ties += d.Ties
	m.stats[playerID] = s
	return nil
}

func (m *memRepo) Get(ctx context.Context, playerID string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[playerID]
	if !ok {
		return Stats{PlayerID: playerID}, nil
	}
	return s, nil
}

func (m *memRepo) List(ctx context.Context, limit int) ([]Stats, error) {
	m.mu.Lock()
	out := make([]Stats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Blackjacks != out[j].Blackjacks {
			return out[i].Blackjacks > out[j].Blackjacks
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
