package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
)

type GameLogRepository struct {
	mu   sync.RWMutex
	logs []gamelog.Log
}

func NewGameLogRepository(logs []gamelog.Log) *GameLogRepository {
	return &GameLogRepository{logs: slices.Clone(logs)}
}

func (r *GameLogRepository) List(ctx context.Context, filter gamelog.Filter) ([]gamelog.Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamelog.Log, 0)
	for _, l := range r.logs {
		if !filter.Matches(l) {
			continue
		}
		l.Names = slices.Clone(l.Names)
		out = append(out, l)
	}
	return out, nil
}

func (r *GameLogRepository) Totals(ctx context.Context, filter gamelog.Filter) ([]gamelog.Total, error) {
	logs, err := r.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return gamelog.Sum(logs), nil
}
