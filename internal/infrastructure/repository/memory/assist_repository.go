package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

type AssistRepository struct {
	mu       sync.RWMutex
	credits  []assist.Credit
	byPlayer map[string][]assist.Credit
}

func NewAssistRepository(credits []assist.Credit) *AssistRepository {
	byPlayer := make(map[string][]assist.Credit)
	for _, c := range credits {
		key := shot.NormalizeName(c.PlayerName)
		byPlayer[key] = append(byPlayer[key], c)
	}
	return &AssistRepository{
		credits:  slices.Clone(credits),
		byPlayer: byPlayer,
	}
}

func (r *AssistRepository) List(ctx context.Context, filter assist.Filter) ([]assist.Credit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	source := r.credits
	if filter.Player != "" {
		source = r.byPlayer[shot.NormalizeName(filter.Player)]
	}

	out := make([]assist.Credit, 0, len(source))
	for _, c := range source {
		if c.InScope(filter.Scope) {
			out = append(out, c)
		}
	}
	return out, nil
}
