package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

type ShotRepository struct {
	mu     sync.RWMutex
	events []shot.Event
}

func NewShotRepository(events []shot.Event) *ShotRepository {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b shot.Event) int {
		if c := cmp.Compare(a.NHLGameID, b.NHLGameID); c != 0 {
			return c
		}
		return cmp.Compare(a.ShotID, b.ShotID)
	})
	return &ShotRepository{events: sorted}
}

func (r *ShotRepository) Fetch(ctx context.Context, filter shot.Filter) ([]shot.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shot.Event, 0)
	for _, ev := range r.events {
		if !ev.Eligible() || !filter.Matches(ev) {
			continue
		}
		out = append(out, ev.Clone())
	}
	return out, nil
}

func (r *ShotRepository) RecentGameIDs(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType, limit int) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, ev := range r.events {
		if !seasonType.Includes(ev.IsPlayoffGame) || !inv.Matches(ev) {
			continue
		}
		if _, ok := seen[ev.NHLGameID]; ok {
			continue
		}
		seen[ev.NHLGameID] = struct{}{}
		ids = append(ids, ev.NHLGameID)
	}

	// Newest by global game id, not by date.
	slices.SortFunc(ids, func(a, b int64) int { return cmp.Compare(b, a) })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *ShotRepository) HasParticipant(ctx context.Context, inv shot.Involvement) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.ContainsFunc(r.events, inv.Matches), nil
}

func (r *ShotRepository) Seasons(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0)
	for _, ev := range r.events {
		if !seasonType.Includes(ev.IsPlayoffGame) || !inv.Matches(ev) {
			continue
		}
		out = append(out, ev.Season)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
