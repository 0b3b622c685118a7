package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
)

type gameLogTableModel struct {
	EntityKind     string         `db:"entity_kind"`
	Names          pq.StringArray `db:"names"`
	TeamCode       string         `db:"team_code"`
	NHLGameID      int64          `db:"nhl_game_id"`
	Season         int            `db:"season"`
	IsPlayoffGame  bool           `db:"is_playoff_game"`
	GameDate       time.Time      `db:"game_date"`
	Situation      string         `db:"situation"`
	IcetimeSeconds float64        `db:"icetime_seconds"`
	Points         int            `db:"points"`
	Hits           int            `db:"hits"`
	Takeaways      int            `db:"takeaways"`
	Giveaways      int            `db:"giveaways"`
	BlockedShots   int            `db:"blocked_shots"`
	ShotsFaced     int            `db:"shots_faced"`
}

type gameLogTotalModel struct {
	EntityKind     string         `db:"entity_kind"`
	Names          pq.StringArray `db:"names"`
	TeamCode       string         `db:"team_code"`
	Games          int            `db:"games"`
	IcetimeSeconds float64        `db:"icetime_seconds"`
	Points         int            `db:"points"`
	Hits           int            `db:"hits"`
	Takeaways      int            `db:"takeaways"`
	Giveaways      int            `db:"giveaways"`
	BlockedShots   int            `db:"blocked_shots"`
	ShotsFaced     int            `db:"shots_faced"`
}

var gameLogSelectColumns = []string{
	"entity_kind",
	"names",
	"team_code",
	"nhl_game_id",
	"season",
	"is_playoff_game",
	"game_date",
	"situation",
	"icetime_seconds",
	"points",
	"hits",
	"takeaways",
	"giveaways",
	"blocked_shots",
	"shots_faced",
}

var gameLogTotalColumns = []string{
	"entity_kind",
	"names",
	"MIN(team_code) AS team_code",
	"COUNT(1) AS games",
	"COALESCE(SUM(icetime_seconds), 0) AS icetime_seconds",
	"COALESCE(SUM(points), 0) AS points",
	"COALESCE(SUM(hits), 0) AS hits",
	"COALESCE(SUM(takeaways), 0) AS takeaways",
	"COALESCE(SUM(giveaways), 0) AS giveaways",
	"COALESCE(SUM(blocked_shots), 0) AS blocked_shots",
	"COALESCE(SUM(shots_faced), 0) AS shots_faced",
}

func gameLogFromRow(row gameLogTableModel) gamelog.Log {
	return gamelog.Log{
		EntityKind:     entity.Kind(row.EntityKind),
		Names:          shot.Roster(row.Names),
		TeamCode:       row.TeamCode,
		NHLGameID:      row.NHLGameID,
		Season:         row.Season,
		IsPlayoffGame:  row.IsPlayoffGame,
		GameDate:       row.GameDate,
		Situation:      situation.Situation(row.Situation),
		IcetimeSeconds: row.IcetimeSeconds,
		Points:         row.Points,
		Hits:           row.Hits,
		Takeaways:      row.Takeaways,
		Giveaways:      row.Giveaways,
		BlockedShots:   row.BlockedShots,
		ShotsFaced:     row.ShotsFaced,
	}
}

func gameLogToRow(l gamelog.Log) gameLogTableModel {
	names := pq.StringArray(l.Names)
	if names == nil {
		names = pq.StringArray{}
	}
	return gameLogTableModel{
		EntityKind:     string(l.EntityKind),
		Names:          names,
		TeamCode:       l.TeamCode,
		NHLGameID:      l.NHLGameID,
		Season:         l.Season,
		IsPlayoffGame:  l.IsPlayoffGame,
		GameDate:       l.GameDate,
		Situation:      string(l.Situation),
		IcetimeSeconds: l.IcetimeSeconds,
		Points:         l.Points,
		Hits:           l.Hits,
		Takeaways:      l.Takeaways,
		Giveaways:      l.Giveaways,
		BlockedShots:   l.BlockedShots,
		ShotsFaced:     l.ShotsFaced,
	}
}

// identity is the row's subject without per-game fields, used to re-check
// entity matches on aggregated rows.
func (m gameLogTotalModel) identity() gamelog.Log {
	return gamelog.Log{
		EntityKind: entity.Kind(m.EntityKind),
		Names:      shot.Roster(m.Names),
		TeamCode:   m.TeamCode,
	}
}
