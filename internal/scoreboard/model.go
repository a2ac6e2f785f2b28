package scoreboard

import (
	"context"
	"errors"

	"BlockJack/internal/game/engine"
)

// Stats 玩家累计战绩
type Stats struct {
	PlayerID   string `json:"player_id"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Blackjacks int    `json:"blackjacks"`
	Ties       int    `json:"ties"`
}

// Games 已结算局数（blackjack 也计入 wins，不重复统计）
func (s Stats) Games() int { return s.Wins + s.Losses + s.Ties }

var ErrUnknownResult = errors.New("unknown round result")

// Delta 一局结果对应的计数增量；blackjack 同时算一胜
func Delta(r engine.Result) (Stats, error) {
	switch r {
	case engine.ResultWin:
		return Stats{Wins: 1}, nil
	case engine.ResultLoss:
		return Stats{Losses: 1}, nil
	case engine.ResultBlackjack:
		return Stats{Wins: 1, Blackjacks: 1}, nil
	case engine.ResultTie:
		return Stats{Ties: 1}, nil
	case engine.ResultNone:
		return Stats{}, nil
	}
	return Stats{}, ErrUnknownResult
}

// Repo 战绩持久化
type Repo interface {
	// Record 累加一局结果；ResultNone 不做任何事
	Record(ctx context.Context, playerID string, result engine.Result) error
	// Get 没有记录时返回全 0 的 Stats
	Get(ctx context.Context, playerID string) (Stats, error)
	// List 按 wins、blackjacks 降序
	List(ctx context.Context, limit int) ([]Stats, error)
}
