package assist

import (
	"context"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

func (r Role) Valid() bool {
	return r == RolePrimary || r == RoleSecondary
}

// Credit attributes an assist on a goal to a player.
type Credit struct {
	NHLGameID     int64
	ShotID        int64
	PlayerName    string
	Role          Role
	Season        int
	IsPlayoffGame bool
	GameDate      time.Time
}

// InScope reports whether the credited goal's game falls in scope.
func (c Credit) InScope(scope shot.Scope) bool {
	return scope.Matches(shot.Event{
		NHLGameID:     c.NHLGameID,
		Season:        c.Season,
		IsPlayoffGame: c.IsPlayoffGame,
		GameDate:      c.GameDate,
	})
}

type Filter struct {
	shot.Scope
	// Player is a full name; empty lists every credit in scope.
	Player string
}

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Credit, error)
}
