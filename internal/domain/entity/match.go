package entity

import (
	"strings"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

// MatchMode selects which event fields identify the entity.
type MatchMode string

const (
	// MatchShooter compares the shooter name exactly.
	MatchShooter MatchMode = "shooter"
	// MatchOnIce looks for every name fragment on one side's roster.
	MatchOnIce MatchMode = "on_ice"
	// MatchTeamFor compares the shooting team code.
	MatchTeamFor MatchMode = "team_for"
	// MatchTeamGame accepts any event of a game the team played in.
	MatchTeamGame MatchMode = "team_game"
	// MatchGoalie compares the goalie the shot was taken on.
	MatchGoalie MatchMode = "goalie"
)

type Side int

const (
	SideNone Side = iota
	SideFor
	SideAgainst
)

func (s Side) String() string {
	switch s {
	case SideFor:
		return "for"
	case SideAgainst:
		return "against"
	default:
		return "none"
	}
}

// Locate reports which side of ev the entity is on under mode.
func Locate(ev shot.Event, e Entity, mode MatchMode) Side {
	switch mode {
	case MatchShooter:
		if len(e.Names) == 1 && shot.NormalizeName(ev.ShooterName) == shot.NormalizeName(e.Names[0]) {
			return SideFor
		}
	case MatchOnIce:
		if ev.ShootingRoster.ContainsAll(e.Names) {
			return SideFor
		}
		if ev.OpposingRoster.ContainsAll(e.Names) {
			return SideAgainst
		}
	case MatchTeamFor:
		switch {
		case strings.EqualFold(ev.TeamCode, e.TeamCode):
			return SideFor
		case ev.IsHome(e.TeamCode) || ev.IsAway(e.TeamCode):
			return SideAgainst
		}
	case MatchTeamGame:
		if ev.IsHome(e.TeamCode) || ev.IsAway(e.TeamCode) {
			return SideFor
		}
	case MatchGoalie:
		if len(e.Names) == 1 && shot.NormalizeName(ev.GoalieName) == shot.NormalizeName(e.Names[0]) {
			return SideAgainst
		}
	}
	return SideNone
}

// Perspective returns the team whose bench the entity sat on for ev.
func Perspective(ev shot.Event, e Entity, side Side) string {
	if e.Kind == KindTeam {
		return strings.ToUpper(strings.TrimSpace(e.TeamCode))
	}
	if side == SideAgainst {
		return ev.Opponent()
	}
	return ev.TeamCode
}
