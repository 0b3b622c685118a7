package cache

import (
	"context"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	basecache "github.com/riskibarqy/hockey-analytics/internal/platform/cache"
	"github.com/valyala/bytebufferpool"
)

// key encodes the arguments of one read. An empty key bypasses the cache.
func key(prefix string, parts ...any) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(prefix)
	for _, part := range parts {
		raw, err := sonic.Marshal(part)
		if err != nil {
			return ""
		}
		_ = buf.WriteByte('|')
		_, _ = buf.Write(raw)
	}
	return buf.String()
}

type ShotRepository struct {
	next  shot.Repository
	cache *basecache.Store
}

func NewShotRepository(next shot.Repository, cache *basecache.Store) *ShotRepository {
	return &ShotRepository{next: next, cache: cache}
}

func (r *ShotRepository) Fetch(ctx context.Context, filter shot.Filter) ([]shot.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, key("shot:fetch", filter), func(ctx context.Context) (any, error) {
		return r.next.Fetch(ctx, filter)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]shot.Event)
	out := make([]shot.Event, len(items))
	for i, ev := range items {
		out[i] = ev.Clone()
	}
	return out, nil
}

func (r *ShotRepository) RecentGameIDs(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType, limit int) ([]int64, error) {
	v, err := r.cache.GetOrLoad(ctx, key("shot:recent", inv, seasonType, limit), func(ctx context.Context) (any, error) {
		return r.next.RecentGameIDs(ctx, inv, seasonType, limit)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]int64)
	return slices.Clone(items), nil
}

func (r *ShotRepository) HasParticipant(ctx context.Context, inv shot.Involvement) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, key("shot:participant", inv), func(ctx context.Context) (any, error) {
		return r.next.HasParticipant(ctx, inv)
	})
	if err != nil {
		return false, err
	}

	found, _ := v.(bool)
	return found, nil
}

func (r *ShotRepository) Seasons(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType) ([]int, error) {
	v, err := r.cache.GetOrLoad(ctx, key("shot:seasons", inv, seasonType), func(ctx context.Context) (any, error) {
		return r.next.Seasons(ctx, inv, seasonType)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]int)
	return slices.Clone(items), nil
}

type GameLogRepository struct {
	next  gamelog.Repository
	cache *basecache.Store
}

func NewGameLogRepository(next gamelog.Repository, cache *basecache.Store) *GameLogRepository {
	return &GameLogRepository{next: next, cache: cache}
}

func (r *GameLogRepository) List(ctx context.Context, filter gamelog.Filter) ([]gamelog.Log, error) {
	v, err := r.cache.GetOrLoad(ctx, key("gamelog:list", filter), func(ctx context.Context) (any, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]gamelog.Log)
	out := make([]gamelog.Log, len(items))
	for i, l := range items {
		l.Names = slices.Clone(l.Names)
		out[i] = l
	}
	return out, nil
}

func (r *GameLogRepository) Totals(ctx context.Context, filter gamelog.Filter) ([]gamelog.Total, error) {
	v, err := r.cache.GetOrLoad(ctx, key("gamelog:totals", filter), func(ctx context.Context) (any, error) {
		return r.next.Totals(ctx, filter)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]gamelog.Total)
	out := make([]gamelog.Total, len(items))
	for i, t := range items {
		t.Entity.Names = slices.Clone(t.Entity.Names)
		out[i] = t
	}
	return out, nil
}

type AssistRepository struct {
	next  assist.Repository
	cache *basecache.Store
}

func NewAssistRepository(next assist.Repository, cache *basecache.Store) *AssistRepository {
	return &AssistRepository{next: next, cache: cache}
}

func (r *AssistRepository) List(ctx context.Context, filter assist.Filter) ([]assist.Credit, error) {
	v, err := r.cache.GetOrLoad(ctx, key("assist:list", filter), func(ctx context.Context) (any, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]assist.Credit)
	return slices.Clone(items), nil
}
