package stat

import (
	"slices"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
)

type Kind string

const (
	Goals              Kind = "goals"
	ShotsOnGoal        Kind = "shots_on_goal"
	ShotAttempts       Kind = "shot_attempts"
	ExpectedGoals      Kind = "expected_goals"
	ShootingPercentage Kind = "shooting_percentage"

	GoalsPer60         Kind = "goals_per_60"
	ShotsPer60         Kind = "shots_per_60"
	ExpectedGoalsPer60 Kind = "expected_goals_per_60"
	PointsPer60        Kind = "points_per_60"

	OnIceGoalsFor     Kind = "on_ice_goals_for"
	OnIceGoalsAgainst Kind = "on_ice_goals_against"
	OnIceXGFor        Kind = "on_ice_xg_for"
	OnIceXGAgainst    Kind = "on_ice_xg_against"

	GoalsShare         Kind = "goals_share"
	ExpectedGoalsShare Kind = "expected_goals_share"
	ShotAttemptsShare  Kind = "shot_attempts_share"

	Assists          Kind = "assists"
	PrimaryAssists   Kind = "primary_assists"
	SecondaryAssists Kind = "secondary_assists"
	Points           Kind = "points"
	PrimaryPoints    Kind = "primary_points"

	SavePercentage          Kind = "save_percentage"
	GoalsAgainst            Kind = "goals_against"
	GoalsAgainstPer60       Kind = "goals_against_per_60"
	GoalsSavedAboveExpected Kind = "goals_saved_above_expected"

	Hits         Kind = "hits"
	Takeaways    Kind = "takeaways"
	Giveaways    Kind = "giveaways"
	BlockedShots Kind = "blocked_shots"

	Record Kind = "record"
)

type Family string

const (
	FamilyCount  Family = "count"
	FamilyRate   Family = "rate"
	FamilyShare  Family = "share"
	FamilyRatio  Family = "ratio"
	FamilyRecord Family = "record"
)

// Averaged reports whether multi-season totals average the family instead of summing it.
func (f Family) Averaged() bool {
	return f == FamilyRate || f == FamilyShare || f == FamilyRatio
}

type source int

const (
	fromEvents source = iota
	fromLogs
	fromCredits
)

// Definition describes how a statistic is matched, computed and ranked.
type Definition struct {
	Kind      Kind
	Family    Family
	Direction ranking.Direction
	Match     map[entity.Kind]entity.MatchMode
	source    source
	metric    metric
}

// Supports reports whether the statistic can be computed for kind.
func (d Definition) Supports(kind entity.Kind) bool {
	_, ok := d.Match[kind]
	return ok
}

func (d Definition) EntityKinds() []entity.Kind {
	out := make([]entity.Kind, 0, len(d.Match))
	for k := range d.Match {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// NeedsIcetime reports whether the value divides by ice time.
func (d Definition) NeedsIcetime() bool {
	return d.Family == FamilyRate
}

// UsesCredits reports whether the value reads assist credits.
func (d Definition) UsesCredits() bool {
	return d.source == fromCredits || d.Kind == PrimaryPoints
}

var (
	shooterModes = map[entity.Kind]entity.MatchMode{
		entity.KindPlayer: entity.MatchShooter,
		entity.KindTeam:   entity.MatchTeamFor,
	}
	onIceModes = map[entity.Kind]entity.MatchMode{
		entity.KindPlayer:  entity.MatchOnIce,
		entity.KindLine:    entity.MatchOnIce,
		entity.KindPairing: entity.MatchOnIce,
		entity.KindTeam:    entity.MatchTeamFor,
	}
	goalieModes = map[entity.Kind]entity.MatchMode{
		entity.KindGoalie: entity.MatchGoalie,
		entity.KindTeam:   entity.MatchTeamFor,
	}
	playerOnly = map[entity.Kind]entity.MatchMode{
		entity.KindPlayer: entity.MatchShooter,
	}
	logModes = map[entity.Kind]entity.MatchMode{
		entity.KindPlayer: entity.MatchShooter,
		entity.KindTeam:   entity.MatchTeamFor,
	}
	recordModes = map[entity.Kind]entity.MatchMode{
		entity.KindTeam: entity.MatchTeamGame,
	}
)

var registry = map[Kind]Definition{}

func define(kind Kind, family Family, dir ranking.Direction, match map[entity.Kind]entity.MatchMode, src source, m metric) {
	registry[kind] = Definition{Kind: kind, Family: family, Direction: dir, Match: match, source: src, metric: m}
}

func init() {
	higher, lower := ranking.HigherIsBetter, ranking.LowerIsBetter

	define(Goals, FamilyCount, higher, shooterModes, fromEvents, forSum(goalValue))
	define(ShotsOnGoal, FamilyCount, higher, shooterModes, fromEvents, forSum(onGoalValue))
	define(ShotAttempts, FamilyCount, higher, shooterModes, fromEvents, forSum(attemptValue))
	define(ExpectedGoals, FamilyCount, higher, shooterModes, fromEvents, forSum(xgValue))
	define(ShootingPercentage, FamilyRatio, higher, shooterModes, fromEvents, shootingPercentage)

	define(GoalsPer60, FamilyRate, higher, shooterModes, fromEvents, forSum(goalValue))
	define(ShotsPer60, FamilyRate, higher, shooterModes, fromEvents, forSum(onGoalValue))
	define(ExpectedGoalsPer60, FamilyRate, higher, onIceModes, fromEvents, forSum(xgValue))
	define(PointsPer60, FamilyRate, higher, playerOnly, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.Points) }))

	define(OnIceGoalsFor, FamilyCount, higher, onIceModes, fromEvents, forSum(goalValue))
	define(OnIceGoalsAgainst, FamilyCount, lower, onIceModes, fromEvents, againstSum(goalValue))
	define(OnIceXGFor, FamilyCount, higher, onIceModes, fromEvents, forSum(xgValue))
	define(OnIceXGAgainst, FamilyCount, lower, onIceModes, fromEvents, againstSum(xgValue))

	define(GoalsShare, FamilyShare, higher, onIceModes, fromEvents, share(goalValue))
	define(ExpectedGoalsShare, FamilyShare, higher, onIceModes, fromEvents, share(xgValue))
	define(ShotAttemptsShare, FamilyShare, higher, onIceModes, fromEvents, share(attemptValue))

	define(Points, FamilyCount, higher, playerOnly, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.Points) }))
	define(Assists, FamilyCount, higher, playerOnly, fromLogs, assists)
	define(PrimaryAssists, FamilyCount, higher, playerOnly, fromCredits, creditCount(assist.RolePrimary))
	define(SecondaryAssists, FamilyCount, higher, playerOnly, fromCredits, creditCount(assist.RoleSecondary))
	define(PrimaryPoints, FamilyCount, higher, playerOnly, fromLogs, primaryPoints)

	define(SavePercentage, FamilyRatio, higher, goalieModes, fromEvents, savePercentage)
	define(GoalsAgainst, FamilyCount, lower, goalieModes, fromEvents, againstSum(goalValue))
	define(GoalsAgainstPer60, FamilyRate, lower, goalieModes, fromEvents, againstSum(goalValue))
	define(GoalsSavedAboveExpected, FamilyCount, higher, goalieModes, fromEvents, goalsSavedAboveExpected)

	define(Hits, FamilyCount, higher, logModes, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.Hits) }))
	define(Takeaways, FamilyCount, higher, logModes, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.Takeaways) }))
	define(Giveaways, FamilyCount, lower, logModes, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.Giveaways) }))
	define(BlockedShots, FamilyCount, higher, logModes, fromLogs, logValue(func(in Input) float64 { return float64(in.Logs.BlockedShots) }))

	define(Record, FamilyRecord, higher, recordModes, fromEvents, nil)
}

func Lookup(kind Kind) (Definition, bool) {
	def, ok := registry[kind]
	return def, ok
}

// Kinds lists every registered statistic in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
