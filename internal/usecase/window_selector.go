package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
)

// WindowSelector turns query windows into store scopes. Today is injected
// so every window resolves against one configured date.
type WindowSelector struct {
	shots         shot.Repository
	today         func() time.Time
	currentSeason int
}

func NewWindowSelector(shots shot.Repository, today func() time.Time) *WindowSelector {
	if today == nil {
		today = time.Now
	}
	return &WindowSelector{shots: shots, today: today}
}

// WithCurrentSeason pins the season used when a query names none. Zero
// derives it from today.
func (s *WindowSelector) WithCurrentSeason(season int) *WindowSelector {
	s.currentSeason = season
	return s
}

func (s *WindowSelector) Today() time.Time {
	return window.Day(s.today())
}

func (s *WindowSelector) CurrentSeason() int {
	if s.currentSeason > 0 {
		return s.currentSeason
	}
	return window.SeasonOf(s.Today())
}

// Resolve validates w and builds its scope. Trailing windows look up the
// entity's most recent games and restrict the scope to exactly those.
func (s *WindowSelector) Resolve(ctx context.Context, w window.Window, e entity.Entity, seasonType shot.SeasonType) (window.Resolved, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WindowSelector.Resolve")
	defer span.End()

	today := s.Today()
	if err := w.Validate(today); err != nil {
		return window.Resolved{}, err
	}

	resolved := window.Resolved{Window: w, Scope: w.Scope(today, seasonType)}
	if w.Kind != window.KindTrailingGames {
		return resolved, nil
	}

	ids, err := s.shots.RecentGameIDs(ctx, e.Involvement(), seasonType, w.Games)
	if err != nil {
		return window.Resolved{}, fetchFailed("find recent games", err)
	}
	if len(ids) > w.Games {
		ids = ids[:w.Games]
	}
	resolved.Scope.GameIDs = ids
	resolved.GameIDs = ids
	return resolved, nil
}
