package shot

import (
	"slices"
	"time"
)

// Scope bounds a fetch in time and by game. Zero values leave a bound open.
type Scope struct {
	SeasonFrom int
	SeasonTo   int
	DateFrom   time.Time
	DateTo     time.Time
	// GameIDs restricts the scope to these global game ids when RestrictGames is set.
	GameIDs       []int64
	RestrictGames bool
	SeasonType    SeasonType
}

func (s Scope) Matches(ev Event) bool {
	if s.SeasonFrom > 0 && ev.Season < s.SeasonFrom {
		return false
	}
	if s.SeasonTo > 0 && ev.Season > s.SeasonTo {
		return false
	}
	if !s.DateFrom.IsZero() && ev.GameDate.Before(s.DateFrom) {
		return false
	}
	if !s.DateTo.IsZero() && ev.GameDate.After(s.DateTo) {
		return false
	}
	if s.RestrictGames && !slices.Contains(s.GameIDs, ev.NHLGameID) {
		return false
	}
	if s.SeasonType != "" && !s.SeasonType.Includes(ev.IsPlayoffGame) {
		return false
	}
	return true
}

// Involvement describes who must take part in an event for it to be fetched.
// An empty Involvement matches every event.
type Involvement struct {
	// Players are name fragments that must all appear on one side's roster.
	Players  []string
	Goalie   string
	TeamCode string
}

func (i Involvement) IsZero() bool {
	return len(i.Players) == 0 && i.Goalie == "" && i.TeamCode == ""
}

func (i Involvement) Matches(ev Event) bool {
	if i.TeamCode != "" && !ev.IsHome(i.TeamCode) && !ev.IsAway(i.TeamCode) {
		return false
	}
	if i.Goalie != "" && NormalizeName(ev.GoalieName) != NormalizeName(i.Goalie) {
		return false
	}
	if len(i.Players) > 0 {
		onIce := ev.ShootingRoster.ContainsAll(i.Players) || ev.OpposingRoster.ContainsAll(i.Players)
		if !onIce && !(len(i.Players) == 1 && Roster{ev.ShooterName}.ContainsFragment(i.Players[0])) {
			return false
		}
	}
	return true
}

type Filter struct {
	Scope
	Involving *Involvement
}

func (f Filter) Matches(ev Event) bool {
	if !f.Scope.Matches(ev) {
		return false
	}
	return f.Involving == nil || f.Involving.Matches(ev)
}
