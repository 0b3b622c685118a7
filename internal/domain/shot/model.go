package shot

import (
	"slices"
	"strings"
	"time"
)

type Outcome string

const (
	OutcomeGoal Outcome = "GOAL"
	OutcomeShot Outcome = "SHOT"
	OutcomeMiss Outcome = "MISS"
)

// MaxAdjustedX is the goal line; shots recorded behind it are never aggregated.
const MaxAdjustedX = 89.0

const (
	MinSkaters = 3
	MaxSkaters = 6
)

type SeasonType string

const (
	SeasonTypeRegular  SeasonType = "regular"
	SeasonTypePlayoffs SeasonType = "playoffs"
	SeasonTypeAll      SeasonType = "all"
)

func (t SeasonType) Valid() bool {
	switch t {
	case SeasonTypeRegular, SeasonTypePlayoffs, SeasonTypeAll:
		return true
	default:
		return false
	}
}

// Includes reports whether a game with the given playoff flag belongs to t.
func (t SeasonType) Includes(isPlayoff bool) bool {
	switch t {
	case SeasonTypeRegular:
		return !isPlayoff
	case SeasonTypePlayoffs:
		return isPlayoff
	default:
		return true
	}
}

// Event is one shot attempt as stored in the event log.
type Event struct {
	ShotID          int64
	GameID          int64
	NHLGameID       int64
	Season          int
	IsPlayoffGame   bool
	Period          int
	TimeSeconds     int
	TeamCode        string
	HomeTeamCode    string
	AwayTeamCode    string
	HomeSkaters     int
	AwaySkaters     int
	Event           Outcome
	ShotOnEmptyNet  bool
	XCord           float64
	YCord           float64
	XCordAdjusted   float64
	YCordAdjusted   float64
	ShooterPlayerID int64
	ShooterName     string
	GoalieName      string
	XGoal           float64
	ShootingRoster  Roster
	OpposingRoster  Roster
	GameDate        time.Time
	HomeTeamWon     bool
}

// Eligible applies the exclusions every shot aggregate honors.
func (e Event) Eligible() bool {
	return e.XCordAdjusted <= MaxAdjustedX && !e.ShotOnEmptyNet
}

// Clone copies the event with its own roster slices.
func (e Event) Clone() Event {
	e.ShootingRoster = slices.Clone(e.ShootingRoster)
	e.OpposingRoster = slices.Clone(e.OpposingRoster)
	return e
}

func (e Event) IsGoal() bool {
	return e.Event == OutcomeGoal
}

func (e Event) OnGoal() bool {
	return e.Event == OutcomeGoal || e.Event == OutcomeShot
}

func (e Event) IsHome(teamCode string) bool {
	return strings.EqualFold(e.HomeTeamCode, teamCode)
}

func (e Event) IsAway(teamCode string) bool {
	return strings.EqualFold(e.AwayTeamCode, teamCode)
}

// Skaters returns skaters on ice for teamCode and its opponent.
func (e Event) Skaters(teamCode string) (own, opp int, ok bool) {
	switch {
	case e.IsHome(teamCode):
		return e.HomeSkaters, e.AwaySkaters, true
	case e.IsAway(teamCode):
		return e.AwaySkaters, e.HomeSkaters, true
	default:
		return 0, 0, false
	}
}

// Won reports whether teamCode won the game the event belongs to.
func (e Event) Won(teamCode string) bool {
	if e.IsHome(teamCode) {
		return e.HomeTeamWon
	}
	return e.IsAway(teamCode) && !e.HomeTeamWon
}

// Opponent returns the team code that is not the shooter.
func (e Event) Opponent() string {
	if strings.EqualFold(e.TeamCode, e.HomeTeamCode) {
		return e.AwayTeamCode
	}
	return e.HomeTeamCode
}
