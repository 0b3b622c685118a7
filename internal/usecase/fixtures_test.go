package usecase

import (
	"slices"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/memory"
)

var testRosters = map[string]shot.Roster{
	"TOR": {"Auston Matthews", "Mitch Marner", "William Nylander", "Morgan Rielly", "Jake McCabe"},
	"MTL": {"Nick Suzuki", "Cole Caufield", "Juraj Slafkovsky", "Mike Matheson", "Kaiden Guhle"},
	"COL": {"Nathan MacKinnon", "Mikko Rantanen", "Valeri Nichushkin", "Cale Makar", "Devon Toews"},
	"DAL": {"Jason Robertson", "Roope Hintz", "Wyatt Johnston", "Miro Heiskanen", "Thomas Harley"},
	"VGK": {"Jack Eichel", "Mark Stone", "William Karlsson", "Alex Pietrangelo", "Shea Theodore"},
}

var testGoalies = map[string]string{
	"TOR": "Joseph Woll",
	"MTL": "Sam Montembeault",
	"COL": "Alexandar Georgiev",
	"DAL": "Jake Oettinger",
	"VGK": "Adin Hill",
}

type testGame struct {
	id      int64
	season  int
	date    time.Time
	home    string
	away    string
	homeWon bool
	playoff bool
}

func newTestGame(id int64, season int, date, home, away string, homeWon bool) testGame {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return testGame{id: id, season: season, date: day, home: home, away: away, homeWon: homeWon}
}

// shot builds a 5-on-5 event by team in the game. Callers adjust fields for
// other states.
func (g testGame) shot(id int64, team, shooter string, outcome shot.Outcome, xg float64) shot.Event {
	opponent := g.away
	if team == g.away {
		opponent = g.home
	}
	return shot.Event{
		ShotID:         id,
		GameID:         g.id % 100000,
		NHLGameID:      g.id,
		Season:         g.season,
		IsPlayoffGame:  g.playoff,
		Period:         1,
		TimeSeconds:    int(id % 1200),
		TeamCode:       team,
		HomeTeamCode:   g.home,
		AwayTeamCode:   g.away,
		HomeSkaters:    5,
		AwaySkaters:    5,
		Event:          outcome,
		XCord:          60,
		YCord:          5,
		XCordAdjusted:  60,
		YCordAdjusted:  5,
		ShooterName:    shooter,
		GoalieName:     testGoalies[opponent],
		XGoal:          xg,
		ShootingRoster: slices.Clone(testRosters[team]),
		OpposingRoster: slices.Clone(testRosters[opponent]),
		GameDate:       g.date,
		HomeTeamWon:    g.homeWon,
	}
}

// powerPlay sets the shooting side to 5 skaters against 4.
func powerPlay(ev shot.Event) shot.Event {
	if ev.TeamCode == ev.HomeTeamCode {
		ev.HomeSkaters, ev.AwaySkaters = 5, 4
	} else {
		ev.HomeSkaters, ev.AwaySkaters = 4, 5
	}
	ev.OpposingRoster = ev.OpposingRoster[:4]
	return ev
}

func (g testGame) log(kind entity.Kind, names []string, team string, sit situation.Situation, icetime float64) gamelog.Log {
	return gamelog.Log{
		EntityKind:     kind,
		Names:          slices.Clone(shot.Roster(names)),
		TeamCode:       team,
		NHLGameID:      g.id,
		Season:         g.season,
		IsPlayoffGame:  g.playoff,
		GameDate:       g.date,
		Situation:      sit,
		IcetimeSeconds: icetime,
	}
}

type countingRecorder struct {
	queries  int
	fetches  int
	timeouts int
}

func (r *countingRecorder) ObserveQuery(string, string, time.Duration) { r.queries++ }
func (r *countingRecorder) ObserveFetch(int)                           { r.fetches++ }
func (r *countingRecorder) IncTimeout()                                { r.timeouts++ }

func newTestStats(t *testing.T, events []shot.Event, logs []gamelog.Log, credits []assist.Credit, today string) *StatsService {
	t.Helper()

	day, err := time.Parse(time.DateOnly, today)
	if err != nil {
		t.Fatalf("parse today: %v", err)
	}
	shots := memory.NewShotRepository(events)
	windows := NewWindowSelector(shots, func() time.Time { return day })
	return NewStatsService(
		shots,
		memory.NewGameLogRepository(logs),
		memory.NewAssistRepository(credits),
		windows,
		StatsConfig{FetchTimeout: 5 * time.Second, RankWorkers: 2},
		nil,
		nil,
	)
}
