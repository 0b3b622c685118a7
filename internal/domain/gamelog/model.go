package gamelog

import (
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
)

// Log is one entity's line for one game in one situation. Even strength
// rows cover 5-on-5 play only, whatever strength mode a query uses.
type Log struct {
	EntityKind     entity.Kind
	Names          shot.Roster
	TeamCode       string
	NHLGameID      int64
	Season         int
	IsPlayoffGame  bool
	GameDate       time.Time
	Situation      situation.Situation
	IcetimeSeconds float64
	Points         int
	Hits           int
	Takeaways      int
	Giveaways      int
	BlockedShots   int
	ShotsFaced     int
}

// Entity rebuilds the subject the row belongs to.
func (l Log) Entity() entity.Entity {
	if l.EntityKind == entity.KindTeam {
		return entity.Team(l.TeamCode)
	}
	return entity.Entity{Kind: l.EntityKind, Names: slices.Clone([]string(l.Names))}
}

func (l Log) Key() string {
	return l.Entity().Key()
}

type Filter struct {
	shot.Scope
	Kind entity.Kind
	// Entity narrows the rows to one subject; nil returns the whole kind.
	Entity    *entity.Entity
	Situation situation.Situation
}

func (f Filter) Matches(l Log) bool {
	if l.EntityKind != f.Kind || l.Situation != f.Situation {
		return false
	}
	if !f.Scope.Matches(shot.Event{
		NHLGameID:     l.NHLGameID,
		Season:        l.Season,
		IsPlayoffGame: l.IsPlayoffGame,
		GameDate:      l.GameDate,
	}) {
		return false
	}
	return f.Entity == nil || Identifies(l, *f.Entity)
}

// Identifies reports whether row l belongs to e. Players and goalies match
// by full name; lines and pairings accept name fragments in any order.
func Identifies(l Log, e entity.Entity) bool {
	if l.EntityKind != e.Kind {
		return false
	}
	switch e.Kind {
	case entity.KindTeam:
		return strings.EqualFold(l.TeamCode, e.TeamCode)
	case entity.KindPlayer, entity.KindGoalie:
		return len(l.Names) == 1 && len(e.Names) == 1 &&
			shot.NormalizeName(l.Names[0]) == shot.NormalizeName(e.Names[0])
	default:
		return len(l.Names) == len(e.Names) && l.Names.ContainsAll(e.Names)
	}
}

// Total sums an entity's logs over a filter.
type Total struct {
	Entity         entity.Entity
	Games          int
	IcetimeSeconds float64
	Points         int
	Hits           int
	Takeaways      int
	Giveaways      int
	BlockedShots   int
	ShotsFaced     int
}

func (t Total) HasGames() bool {
	return t.Games > 0
}

func (t *Total) Add(l Log) {
	t.Games++
	t.IcetimeSeconds += l.IcetimeSeconds
	t.Points += l.Points
	t.Hits += l.Hits
	t.Takeaways += l.Takeaways
	t.Giveaways += l.Giveaways
	t.BlockedShots += l.BlockedShots
	t.ShotsFaced += l.ShotsFaced
}

// Sum folds logs into per-entity totals keyed by entity.Key, preserving first-seen order.
func Sum(logs []Log) []Total {
	index := make(map[string]int, len(logs))
	out := make([]Total, 0)
	for _, l := range logs {
		key := l.Key()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Total{Entity: l.Entity()})
		}
		out[i].Add(l)
	}
	return out
}
