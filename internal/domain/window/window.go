package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

var ErrInvalidRange = errors.New("invalid range")

// FirstSeason is the earliest season start year accepted in a range.
const FirstSeason = 1900

type Kind string

const (
	KindSeasonRange   Kind = "season_range"
	KindDateRange     Kind = "date_range"
	KindTrailingGames Kind = "trailing_games"
)

// Window is a time window over the event log. Only the fields of its Kind are read.
type Window struct {
	Kind       Kind
	SeasonFrom int
	SeasonTo   int
	DateFrom   time.Time
	// DateTo defaults to today when zero.
	DateTo time.Time
	Games  int
}

func SeasonRange(lower, upper int) Window {
	return Window{Kind: KindSeasonRange, SeasonFrom: lower, SeasonTo: upper}
}

func Season(season int) Window {
	return SeasonRange(season, season)
}

func DateRange(start, end time.Time) Window {
	return Window{Kind: KindDateRange, DateFrom: start, DateTo: end}
}

func TrailingGames(n int) Window {
	return Window{Kind: KindTrailingGames, Games: n}
}

func (w Window) Validate(today time.Time) error {
	switch w.Kind {
	case KindSeasonRange:
		if w.SeasonFrom < FirstSeason || w.SeasonTo < FirstSeason {
			return fmt.Errorf("%w: seasons must be >= %d", ErrInvalidRange, FirstSeason)
		}
		if w.SeasonFrom > w.SeasonTo {
			return fmt.Errorf("%w: season %d is after %d", ErrInvalidRange, w.SeasonFrom, w.SeasonTo)
		}
	case KindDateRange:
		if w.DateFrom.IsZero() {
			return fmt.Errorf("%w: start date is required", ErrInvalidRange)
		}
		end := w.end(today)
		if Day(w.DateFrom).After(end) {
			return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, w.DateFrom.Format(time.DateOnly), end.Format(time.DateOnly))
		}
	case KindTrailingGames:
		if w.Games < 1 {
			return fmt.Errorf("%w: trailing games must be >= 1", ErrInvalidRange)
		}
	default:
		return fmt.Errorf("%w: unknown window kind %q", ErrInvalidRange, w.Kind)
	}
	return nil
}

// Scope converts a calendar window into a store scope. Trailing windows
// return a scope restricted to no games; the caller supplies the ids.
func (w Window) Scope(today time.Time, seasonType shot.SeasonType) shot.Scope {
	scope := shot.Scope{SeasonType: seasonType}
	switch w.Kind {
	case KindSeasonRange:
		scope.SeasonFrom, scope.SeasonTo = w.SeasonFrom, w.SeasonTo
	case KindDateRange:
		scope.DateFrom, scope.DateTo = Day(w.DateFrom), w.end(today)
	case KindTrailingGames:
		scope.RestrictGames = true
	}
	return scope
}

func (w Window) end(today time.Time) time.Time {
	if w.DateTo.IsZero() {
		return Day(today)
	}
	return Day(w.DateTo)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeasonOf returns the start year of the season day falls in. Seasons open
// in September.
func SeasonOf(day time.Time) int {
	if day.Month() >= time.September {
		return day.Year()
	}
	return day.Year() - 1
}

// Resolved is a window turned into a concrete fetch scope.
type Resolved struct {
	Window Window
	Scope  shot.Scope
	// GameIDs is set for trailing windows, newest game first.
	GameIDs []int64
}
