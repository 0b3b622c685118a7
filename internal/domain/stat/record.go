package stat

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
)

// OvertimePeriod is the first period played after regulation.
const OvertimePeriod = 4

// Record is wins, regulation losses and overtime losses over qualifying games.
type Record struct {
	Wins             int
	RegulationLosses int
	OvertimeLosses   int
	Total            int
	GameIDs          []int64
}

func (r Record) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.RegulationLosses, r.OvertimeLosses)
}

// RecordCondition limits a record to games where the team scored under
// Situation, optionally by a specific scorer. All with no scorer keeps every game.
type RecordCondition struct {
	Situation situation.Situation
	Mode      situation.StrengthMode
	Scorer    string
}

func (c RecordCondition) unconditional() bool {
	return (c.Situation == "" || c.Situation == situation.All) && strings.TrimSpace(c.Scorer) == ""
}

func (c RecordCondition) satisfiedBy(ev shot.Event, team string) bool {
	if !ev.IsGoal() || !strings.EqualFold(ev.TeamCode, team) {
		return false
	}
	if c.Scorer != "" && !(shot.Roster{ev.ShooterName}).ContainsFragment(c.Scorer) {
		return false
	}
	if c.Situation == "" {
		return true
	}
	return situation.Matches(c.Situation, ev, team, c.Mode)
}

type gameSummary struct {
	won       bool
	overtime  bool
	qualifies bool
}

// TeamRecord needs every event of each candidate game so overtime can be
// detected from the period column.
func TeamRecord(events []shot.Event, team string, cond RecordCondition) Record {
	games := make(map[int64]*gameSummary)
	order := make([]int64, 0)
	for _, ev := range events {
		if !ev.IsHome(team) && !ev.IsAway(team) {
			continue
		}
		g, ok := games[ev.NHLGameID]
		if !ok {
			g = &gameSummary{won: ev.Won(team), qualifies: cond.unconditional()}
			games[ev.NHLGameID] = g
			order = append(order, ev.NHLGameID)
		}
		if ev.Period >= OvertimePeriod {
			g.overtime = true
		}
		if !g.qualifies && cond.satisfiedBy(ev, team) {
			g.qualifies = true
		}
	}

	slices.Sort(order)
	rec := Record{GameIDs: make([]int64, 0, len(order))}
	for _, id := range order {
		g := games[id]
		if !g.qualifies {
			continue
		}
		rec.Total++
		rec.GameIDs = append(rec.GameIDs, id)
		switch {
		case g.won:
			rec.Wins++
		case g.overtime:
			rec.OvertimeLosses++
		default:
			rec.RegulationLosses++
		}
	}
	return rec
}

type Milestone struct {
	NHLGameID int64
	GameDate  time.Time
	Opponent  string
	Goals     int
}

// MilestoneGames lists games where player scored at least minGoals, oldest first.
func MilestoneGames(events []shot.Event, player string, minGoals int) []Milestone {
	want := shot.NormalizeName(player)
	byGame := make(map[int64]*Milestone)
	for _, ev := range events {
		if !ev.IsGoal() || !ev.Eligible() || shot.NormalizeName(ev.ShooterName) != want {
			continue
		}
		m, ok := byGame[ev.NHLGameID]
		if !ok {
			m = &Milestone{NHLGameID: ev.NHLGameID, GameDate: ev.GameDate, Opponent: ev.Opponent()}
			byGame[ev.NHLGameID] = m
		}
		m.Goals++
	}

	out := make([]Milestone, 0)
	for _, m := range byGame {
		if m.Goals >= minGoals {
			out = append(out, *m)
		}
	}
	slices.SortFunc(out, func(a, b Milestone) int {
		switch {
		case a.NHLGameID < b.NHLGameID:
			return -1
		case a.NHLGameID > b.NHLGameID:
			return 1
		default:
			return 0
		}
	})
	return out
}
