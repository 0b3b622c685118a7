package stat

import (
	"errors"
	"fmt"
	"math"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
)

var (
	ErrUnknownStat       = errors.New("unknown statistic")
	ErrUnsupportedEntity = errors.New("statistic does not apply to entity kind")
)

// GoalRef locates a shot inside the event log.
type GoalRef struct {
	NHLGameID int64
	ShotID    int64
}

// Input is everything one aggregation reads. Events must already be scoped
// to the window; situation filtering happens here.
type Input struct {
	Entity    entity.Entity
	Situation situation.Situation
	Mode      situation.StrengthMode
	Events    []shot.Event
	Logs      gamelog.Total
	Credits   []assist.Credit
	// Goals indexes goal events by reference; built from Events when nil.
	Goals map[GoalRef]shot.Event
}

// Value is an aggregated statistic. NoData marks a valid query with nothing
// to aggregate, which is different from a zero.
type Value struct {
	Amount float64
	NoData bool
	Events int
	Record *Record
}

type matched struct {
	in            Input
	forEvents     []shot.Event
	againstEvents []shot.Event
}

func (m matched) present() bool {
	return len(m.forEvents)+len(m.againstEvents) > 0
}

type metric func(m matched) (float64, bool)

func Aggregate(kind Kind, in Input) (Value, error) {
	def, ok := Lookup(kind)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownStat, kind)
	}
	mode, ok := def.Match[in.Entity.Kind]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s for %s", ErrUnsupportedEntity, kind, in.Entity.Kind)
	}

	if def.Family == FamilyRecord {
		rec := TeamRecord(in.Events, in.Entity.TeamCode, RecordCondition{Situation: in.Situation, Mode: in.Mode})
		if rec.Total == 0 {
			return Value{NoData: true}, nil
		}
		return Value{Amount: float64(rec.Wins), Events: len(rec.GameIDs), Record: &rec}, nil
	}

	m := match(in, mode)
	amount, present := def.metric(m)
	out := Value{Events: len(m.forEvents) + len(m.againstEvents)}

	if def.Family == FamilyRate {
		hours := in.Logs.IcetimeSeconds / 3600
		if hours <= 0 {
			return Value{NoData: true, Events: out.Events}, nil
		}
		if !present {
			amount = 0
		}
		out.Amount = amount / hours
		return out, nil
	}

	if !present || math.IsNaN(amount) || math.IsInf(amount, 0) {
		out.NoData = true
		return out, nil
	}
	out.Amount = amount
	return out, nil
}

func match(in Input, mode entity.MatchMode) matched {
	m := matched{in: in}
	for _, ev := range in.Events {
		if !ev.Eligible() {
			continue
		}
		side := entity.Locate(ev, in.Entity, mode)
		if side == entity.SideNone {
			continue
		}
		if !situation.Matches(in.Situation, ev, entity.Perspective(ev, in.Entity, side), in.Mode) {
			continue
		}
		if side == entity.SideFor {
			m.forEvents = append(m.forEvents, ev)
		} else {
			m.againstEvents = append(m.againstEvents, ev)
		}
	}
	return m
}

// IndexGoals maps every eligible goal by reference.
func IndexGoals(events []shot.Event) map[GoalRef]shot.Event {
	out := make(map[GoalRef]shot.Event)
	for _, ev := range events {
		if ev.IsGoal() && ev.Eligible() {
			out[GoalRef{NHLGameID: ev.NHLGameID, ShotID: ev.ShotID}] = ev
		}
	}
	return out
}

func goalValue(ev shot.Event) float64 {
	if ev.IsGoal() {
		return 1
	}
	return 0
}

func onGoalValue(ev shot.Event) float64 {
	if ev.OnGoal() {
		return 1
	}
	return 0
}

func attemptValue(shot.Event) float64 {
	return 1
}

func xgValue(ev shot.Event) float64 {
	return ev.XGoal
}

func sum(events []shot.Event, f func(shot.Event) float64) float64 {
	var total float64
	for _, ev := range events {
		total += f(ev)
	}
	return total
}

func forSum(f func(shot.Event) float64) metric {
	return func(m matched) (float64, bool) {
		return sum(m.forEvents, f), m.present()
	}
}

func againstSum(f func(shot.Event) float64) metric {
	return func(m matched) (float64, bool) {
		return sum(m.againstEvents, f), m.present()
	}
}

func share(f func(shot.Event) float64) metric {
	return func(m matched) (float64, bool) {
		forValue, againstValue := sum(m.forEvents, f), sum(m.againstEvents, f)
		total := forValue + againstValue
		if total <= 0 {
			return 0, false
		}
		return forValue / total, true
	}
}

func shootingPercentage(m matched) (float64, bool) {
	shots := sum(m.forEvents, onGoalValue)
	if shots == 0 {
		return 0, false
	}
	return sum(m.forEvents, goalValue) / shots, true
}

func savePercentage(m matched) (float64, bool) {
	faced := sum(m.againstEvents, onGoalValue)
	if faced == 0 {
		return 0, false
	}
	return 1 - sum(m.againstEvents, goalValue)/faced, true
}

func goalsSavedAboveExpected(m matched) (float64, bool) {
	return sum(m.againstEvents, xgValue) - sum(m.againstEvents, goalValue), len(m.againstEvents) > 0
}

func logValue(f func(in Input) float64) metric {
	return func(m matched) (float64, bool) {
		return f(m.in), m.in.Logs.HasGames()
	}
}

// assists is points less goals. Goals come from the shot log, so the
// difference is floored at zero when the two sources disagree.
func assists(m matched) (float64, bool) {
	if !m.in.Logs.HasGames() {
		return 0, false
	}
	return math.Max(float64(m.in.Logs.Points)-sum(m.forEvents, goalValue), 0), true
}

func primaryPoints(m matched) (float64, bool) {
	if !m.in.Logs.HasGames() {
		return 0, false
	}
	secondary, _ := creditCount(assist.RoleSecondary)(m)
	return math.Max(float64(m.in.Logs.Points)-secondary, 0), true
}

// creditCount counts credits whose goal survived the window and situation filters.
func creditCount(role assist.Role) metric {
	return func(m matched) (float64, bool) {
		goals := m.in.Goals
		if goals == nil {
			goals = IndexGoals(m.in.Events)
		}
		var n float64
		for _, credit := range m.in.Credits {
			if credit.Role != role {
				continue
			}
			if len(m.in.Entity.Names) == 1 && shot.NormalizeName(credit.PlayerName) != shot.NormalizeName(m.in.Entity.Names[0]) {
				continue
			}
			ev, ok := goals[GoalRef{NHLGameID: credit.NHLGameID, ShotID: credit.ShotID}]
			if !ok || !situation.Matches(m.in.Situation, ev, ev.TeamCode, m.in.Mode) {
				continue
			}
			n++
		}
		return n, len(m.in.Credits) > 0 || m.in.Logs.HasGames()
	}
}
