package stat

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
)

var gameDate = time.Date(2024, 11, 27, 0, 0, 0, 0, time.UTC)

func newEvent(gameID, shotID int64, mutate func(*shot.Event)) shot.Event {
	ev := shot.Event{
		ShotID:         shotID,
		NHLGameID:      gameID,
		Season:         2024,
		Period:         1,
		TeamCode:       "COL",
		HomeTeamCode:   "COL",
		AwayTeamCode:   "DAL",
		HomeSkaters:    5,
		AwaySkaters:    5,
		Event:          shot.OutcomeShot,
		XCordAdjusted:  60,
		ShooterName:    "Cale Makar",
		GoalieName:     "Jake Oettinger",
		XGoal:          0.1,
		ShootingRoster: shot.Roster{"Nathan MacKinnon", "Mikko Rantanen", "Valeri Nichushkin", "Cale Makar", "Devon Toews"},
		OpposingRoster: shot.Roster{"Roope Hintz", "Jason Robertson", "Joe Pavelski", "Miro Heiskanen", "Esa Lindell"},
		GameDate:       gameDate,
	}
	if mutate != nil {
		mutate(&ev)
	}
	return ev
}

func asAway(ev *shot.Event) {
	ev.TeamCode = "DAL"
	ev.ShooterName = "Jason Robertson"
	ev.GoalieName = "Alexandar Georgiev"
	ev.ShootingRoster, ev.OpposingRoster = ev.OpposingRoster, ev.ShootingRoster
}

func goal(ev *shot.Event) {
	ev.Event = shot.OutcomeGoal
}

func TestAggregateAppliesUnconditionalExclusions(t *testing.T) {
	events := []shot.Event{
		newEvent(1, 1, goal),
		newEvent(1, 2, func(ev *shot.Event) { goal(ev); ev.XCordAdjusted = 95 }),
		newEvent(1, 3, func(ev *shot.Event) { goal(ev); ev.ShotOnEmptyNet = true }),
		newEvent(1, 4, nil),
	}

	got, err := Aggregate(Goals, Input{Entity: entity.Player("Cale Makar"), Situation: situation.All, Events: events})
	if err != nil {
		t.Fatalf("aggregate goals: %v", err)
	}
	if got.Amount != 1 {
		t.Fatalf("unexpected goals: got=%v want=1", got.Amount)
	}
	if got.Events != 2 {
		t.Fatalf("unexpected contributing events: got=%d want=2", got.Events)
	}
}

func TestAggregateShooterMatchIsExact(t *testing.T) {
	events := []shot.Event{
		newEvent(1, 1, goal),
		newEvent(1, 2, func(ev *shot.Event) { goal(ev); ev.ShooterName = "Cale Makarov" }),
	}

	got, err := Aggregate(Goals, Input{Entity: entity.Player("  cale MAKAR "), Situation: situation.All, Events: events})
	if err != nil {
		t.Fatalf("aggregate goals: %v", err)
	}
	if got.Amount != 1 {
		t.Fatalf("unexpected goals: got=%v want=1", got.Amount)
	}
}

func TestAggregateNoDataWhenNothingMatches(t *testing.T) {
	events := []shot.Event{newEvent(1, 1, goal)}

	got, err := Aggregate(Goals, Input{Entity: entity.Player("Auston Matthews"), Situation: situation.All, Events: events})
	if err != nil {
		t.Fatalf("aggregate goals: %v", err)
	}
	if !got.NoData {
		t.Fatalf("expected no data, got %+v", got)
	}

	got, err = Aggregate(Goals, Input{Entity: entity.Player("Cale Makar"), Situation: situation.All, Events: []shot.Event{newEvent(1, 1, nil)}})
	if err != nil {
		t.Fatalf("aggregate goals: %v", err)
	}
	if got.NoData || got.Amount != 0 {
		t.Fatalf("expected genuine zero, got %+v", got)
	}
}

func TestAggregatePairingShareIgnoresNameOrder(t *testing.T) {
	events := []shot.Event{
		newEvent(1, 1, func(ev *shot.Event) { ev.XGoal = 0.3 }),
		newEvent(1, 2, func(ev *shot.Event) { asAway(ev); ev.XGoal = 0.1 }),
		newEvent(1, 3, func(ev *shot.Event) { ev.ShootingRoster = shot.Roster{"Cale Makar", "Josh Manson"}; ev.XGoal = 0.5 }),
	}

	for _, pair := range []entity.Entity{entity.Pairing("Makar", "Toews"), entity.Pairing("toews", "MAKAR")} {
		got, err := Aggregate(ExpectedGoalsShare, Input{Entity: pair, Situation: situation.All, Events: events})
		if err != nil {
			t.Fatalf("aggregate share: %v", err)
		}
		if got.NoData {
			t.Fatalf("expected data for %v", pair.Names)
		}
		if math.Abs(got.Amount-0.75) > 1e-9 {
			t.Fatalf("unexpected share for %v: got=%v want=0.75", pair.Names, got.Amount)
		}
		if got.Amount < 0 || got.Amount > 1 {
			t.Fatalf("share out of range: %v", got.Amount)
		}
	}
}

func TestAggregateShareNoDataOnZeroDenominator(t *testing.T) {
	events := []shot.Event{newEvent(1, 1, func(ev *shot.Event) { ev.XGoal = 0 })}

	got, err := Aggregate(ExpectedGoalsShare, Input{Entity: entity.Player("Makar"), Situation: situation.All, Events: events})
	if err != nil {
		t.Fatalf("aggregate share: %v", err)
	}
	if !got.NoData {
		t.Fatalf("expected no data, got %+v", got)
	}
	if math.IsNaN(got.Amount) {
		t.Fatalf("share must never be NaN")
	}
}

func TestAggregateSituationUsesEntityPerspective(t *testing.T) {
	pp := func(ev *shot.Event) { ev.HomeSkaters, ev.AwaySkaters = 5, 4 }
	events := []shot.Event{
		newEvent(1, 1, func(ev *shot.Event) { pp(ev); ev.XGoal = 0.4 }),
		newEvent(1, 2, func(ev *shot.Event) { pp(ev); asAway(ev); ev.XGoal = 0.2 }),
		newEvent(1, 3, func(ev *shot.Event) { ev.XGoal = 0.9 }),
	}

	forPP, err := Aggregate(OnIceXGFor, Input{Entity: entity.Player("Makar"), Situation: situation.PowerPlay, Events: events})
	if err != nil {
		t.Fatalf("aggregate xg for: %v", err)
	}
	if math.Abs(forPP.Amount-0.4) > 1e-9 {
		t.Fatalf("unexpected power play xg for: got=%v want=0.4", forPP.Amount)
	}

	againstPK, err := Aggregate(OnIceXGAgainst, Input{Entity: entity.Player("Robertson"), Situation: situation.Shorthanded, Events: events})
	if err != nil {
		t.Fatalf("aggregate xg against: %v", err)
	}
	if math.Abs(againstPK.Amount-0.4) > 1e-9 {
		t.Fatalf("unexpected shorthanded xg against: got=%v want=0.4", againstPK.Amount)
	}

	even, err := Aggregate(OnIceXGFor, Input{Entity: entity.Player("Makar"), Situation: situation.EvenStrength, Mode: situation.Strict5v5, Events: events})
	if err != nil {
		t.Fatalf("aggregate even strength: %v", err)
	}
	if math.Abs(even.Amount-0.9) > 1e-9 {
		t.Fatalf("unexpected even strength xg for: got=%v want=0.9", even.Amount)
	}
}

func TestAggregateRatePer60(t *testing.T) {
	events := []shot.Event{newEvent(1, 1, goal), newEvent(1, 2, goal)}
	in := Input{
		Entity:    entity.Player("Cale Makar"),
		Situation: situation.All,
		Events:    events,
		Logs:      gamelog.Total{Games: 1, IcetimeSeconds: 1800},
	}

	got, err := Aggregate(GoalsPer60, in)
	if err != nil {
		t.Fatalf("aggregate rate: %v", err)
	}
	if got.Amount != 4 {
		t.Fatalf("unexpected rate: got=%v want=4", got.Amount)
	}

	in.Logs = gamelog.Total{}
	got, err = Aggregate(GoalsPer60, in)
	if err != nil {
		t.Fatalf("aggregate rate: %v", err)
	}
	if !got.NoData {
		t.Fatalf("expected no data without ice time, got %+v", got)
	}
}

func TestAggregateAssists(t *testing.T) {
	events := []shot.Event{
		newEvent(1, 1, goal),
		newEvent(1, 2, func(ev *shot.Event) { goal(ev); ev.ShooterName = "Nathan MacKinnon" }),
		newEvent(2, 7, func(ev *shot.Event) {
			goal(ev)
			ev.ShooterName = "Mikko Rantanen"
			ev.HomeSkaters, ev.AwaySkaters = 5, 4
		}),
	}
	credits := []assist.Credit{
		{NHLGameID: 1, ShotID: 2, PlayerName: "Cale Makar", Role: assist.RolePrimary},
		{NHLGameID: 2, ShotID: 7, PlayerName: "Cale Makar", Role: assist.RoleSecondary},
		{NHLGameID: 9, ShotID: 1, PlayerName: "Cale Makar", Role: assist.RolePrimary},
	}
	in := Input{
		Entity:    entity.Player("Cale Makar"),
		Situation: situation.All,
		Events:    events,
		Logs:      gamelog.Total{Games: 2, IcetimeSeconds: 3000, Points: 3},
		Credits:   credits,
	}

	tests := []struct {
		kind Kind
		want float64
	}{
		{kind: Points, want: 3},
		{kind: Assists, want: 2},
		{kind: PrimaryAssists, want: 1},
		{kind: SecondaryAssists, want: 1},
		{kind: PrimaryPoints, want: 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Aggregate(tt.kind, in)
			if err != nil {
				t.Fatalf("aggregate: %v", err)
			}
			if got.NoData || got.Amount != tt.want {
				t.Fatalf("unexpected value: got=%+v want=%v", got, tt.want)
			}
		})
	}

	pp := in
	pp.Situation = situation.PowerPlay
	got, err := Aggregate(SecondaryAssists, pp)
	if err != nil {
		t.Fatalf("aggregate power play assists: %v", err)
	}
	if got.Amount != 1 {
		t.Fatalf("unexpected power play secondary assists: got=%v want=1", got.Amount)
	}

	floored := in
	floored.Logs.Points = 0
	got, err = Aggregate(Assists, floored)
	if err != nil {
		t.Fatalf("aggregate floored assists: %v", err)
	}
	if got.Amount != 0 {
		t.Fatalf("assists must not go negative: got=%v", got.Amount)
	}
}

func TestAggregateSavePercentage(t *testing.T) {
	events := make([]shot.Event, 0, 1000)
	for i := int64(1); i <= 1000; i++ {
		mutate := asAway
		if i <= 84 {
			mutate = func(ev *shot.Event) { asAway(ev); goal(ev) }
		}
		events = append(events, newEvent(1, i, mutate))
	}
	events = append(events, newEvent(1, 2000, func(ev *shot.Event) { asAway(ev); ev.Event = shot.OutcomeMiss }))

	got, err := Aggregate(SavePercentage, Input{Entity: entity.Goalie("Alexandar Georgiev"), Situation: situation.All, Events: events})
	if err != nil {
		t.Fatalf("aggregate save percentage: %v", err)
	}
	res := NewResult(entity.Goalie("Alexandar Georgiev"), SavePercentage, got)
	if res.Display != "0.916" {
		t.Fatalf("unexpected save percentage display: got=%q want=%q", res.Display, "0.916")
	}
}

func TestFormatSavePercentage(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0.916, want: "0.916"},
		{in: 0.91649, want: "0.916"},
		{in: 0.9, want: "0.900"},
		{in: 1, want: "1.000"},
	}
	for _, tt := range tests {
		if got := FormatSavePercentage(tt.in); got != tt.want {
			t.Fatalf("format %v: got=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestAggregateRejectsUnsupported(t *testing.T) {
	_, err := Aggregate(Kind("hat_tricks"), Input{Entity: entity.Player("Makar")})
	if !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("expected ErrUnknownStat, got %v", err)
	}

	_, err = Aggregate(SavePercentage, Input{Entity: entity.Pairing("Makar", "Toews")})
	if !errors.Is(err, ErrUnsupportedEntity) {
		t.Fatalf("expected ErrUnsupportedEntity, got %v", err)
	}
}
