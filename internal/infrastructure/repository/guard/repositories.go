package guard

import (
	"context"
	"fmt"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/riskibarqy/hockey-analytics/internal/platform/resilience"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/sony/gobreaker"
)

// Breaker fails event store reads fast while the store keeps erroring. One
// breaker is shared by every repository of the same store.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *logging.Logger
}

// NewBreaker returns nil when the breaker is disabled; a nil Breaker passes
// every call through. onChange may be nil.
func NewBreaker(cfg resilience.BreakerConfig, logger *logging.Logger, onChange resilience.StateChangeFunc) *Breaker {
	if logger == nil {
		logger = logging.Default()
	}
	cb := resilience.NewCircuitBreaker("event-store", cfg, func(name, from, to string) {
		logger.Warn("event store circuit breaker changed state", "breaker", name, "from", from, "to", to)
		if onChange != nil {
			onChange(name, from, to)
		}
	})
	if cb == nil {
		return nil
	}
	return &Breaker{cb: cb, logger: logger}
}

func call[T any](ctx context.Context, b *Breaker, op string, fn func(context.Context) (T, error)) (T, error) {
	if b == nil {
		return fn(ctx)
	}

	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if resilience.Rejected(err) {
		b.logger.WarnContext(ctx, "event store circuit breaker rejected read", "op", op, "state", b.cb.State().String())
		return zero, fmt.Errorf("%w: event store is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return zero, err
	}
	value, _ := out.(T)
	return value, nil
}

type ShotRepository struct {
	next    shot.Repository
	breaker *Breaker
}

func NewShotRepository(next shot.Repository, breaker *Breaker) *ShotRepository {
	return &ShotRepository{next: next, breaker: breaker}
}

func (r *ShotRepository) Fetch(ctx context.Context, filter shot.Filter) ([]shot.Event, error) {
	return call(ctx, r.breaker, "shot.Fetch", func(ctx context.Context) ([]shot.Event, error) {
		return r.next.Fetch(ctx, filter)
	})
}

func (r *ShotRepository) RecentGameIDs(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType, limit int) ([]int64, error) {
	return call(ctx, r.breaker, "shot.RecentGameIDs", func(ctx context.Context) ([]int64, error) {
		return r.next.RecentGameIDs(ctx, inv, seasonType, limit)
	})
}

func (r *ShotRepository) HasParticipant(ctx context.Context, inv shot.Involvement) (bool, error) {
	return call(ctx, r.breaker, "shot.HasParticipant", func(ctx context.Context) (bool, error) {
		return r.next.HasParticipant(ctx, inv)
	})
}

func (r *ShotRepository) Seasons(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType) ([]int, error) {
	return call(ctx, r.breaker, "shot.Seasons", func(ctx context.Context) ([]int, error) {
		return r.next.Seasons(ctx, inv, seasonType)
	})
}

type GameLogRepository struct {
	next    gamelog.Repository
	breaker *Breaker
}

func NewGameLogRepository(next gamelog.Repository, breaker *Breaker) *GameLogRepository {
	return &GameLogRepository{next: next, breaker: breaker}
}

func (r *GameLogRepository) List(ctx context.Context, filter gamelog.Filter) ([]gamelog.Log, error) {
	return call(ctx, r.breaker, "gamelog.List", func(ctx context.Context) ([]gamelog.Log, error) {
		return r.next.List(ctx, filter)
	})
}

func (r *GameLogRepository) Totals(ctx context.Context, filter gamelog.Filter) ([]gamelog.Total, error) {
	return call(ctx, r.breaker, "gamelog.Totals", func(ctx context.Context) ([]gamelog.Total, error) {
		return r.next.Totals(ctx, filter)
	})
}

type AssistRepository struct {
	next    assist.Repository
	breaker *Breaker
}

func NewAssistRepository(next assist.Repository, breaker *Breaker) *AssistRepository {
	return &AssistRepository{next: next, breaker: breaker}
}

func (r *AssistRepository) List(ctx context.Context, filter assist.Filter) ([]assist.Credit, error) {
	return call(ctx, r.breaker, "assist.List", func(ctx context.Context) ([]assist.Credit, error) {
		return r.next.List(ctx, filter)
	})
}
