package scoreboard

import (
	"context"
	"database/sql"
	"errors"

	"BlockJack/internal/game/engine"
)

type pgRepo struct {
	db *sql.DB
}

// NewPostgresRepo 表结构见 storage/schema.sql
func NewPostgresRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

func (r *pgRepo) Record(ctx context.Context, playerID string, result engine.Result) error {
	d, err := Delta(result)
	if err != nil || !result.Settled() {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_stats(player_id, wins, losses, blackjacks, ties)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE
		   SET wins       = player_stats.wins + EXCLUDED.wins,
		       losses     = player_stats.losses + EXCLUDED.losses,
		       blackjacks = player_stats.blackjacks + EXCLUDED.blackjacks,
		       ties       = player_stats.ties + EXCLUDED.ties,
		       updated_at = now()
	`, playerID, d.Wins, d.Losses, d.Blackjacks, d.Ties)
	return err
}

func (r *pgRepo) Get(ctx context.Context, playerID string) (Stats, error) {
	s := Stats{PlayerID: playerID}
	err := r.db.QueryRowContext(ctx, `
		SELECT wins, losses, blackjacks, ties
		  FROM player_stats WHERE player_id = $1
	`, playerID).Scan(&s.Wins, &s.Losses, &s.Blackjacks, &s.Ties)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	return s, err
}

func (r *pgRepo) List(ctx context.Context, limit int) ([]Stats, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, wins, losses, blackjacks, ties
		  FROM player_stats
		 ORDER BY wins DESC, blackjacks DESC, player_id
		 LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Stats, 0)
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.PlayerID, &s.Wins, &s.Losses, &s.Blackjacks, &s.Ties); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
