package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

type shotTableModel struct {
	ShotID          int64          `db:"shot_id"`
	GameID          int64          `db:"game_id"`
	NHLGameID       int64          `db:"nhl_game_id"`
	Season          int            `db:"season"`
	IsPlayoffGame   bool           `db:"is_playoff_game"`
	Period          int            `db:"period"`
	TimeSeconds     int            `db:"time_seconds"`
	TeamCode        string         `db:"team_code"`
	HomeTeamCode    string         `db:"home_team_code"`
	AwayTeamCode    string         `db:"away_team_code"`
	HomeSkaters     int            `db:"home_skaters_on_ice"`
	AwaySkaters     int            `db:"away_skaters_on_ice"`
	Event           string         `db:"event"`
	ShotOnEmptyNet  bool           `db:"shot_on_empty_net"`
	XCord           float64        `db:"x_cord"`
	YCord           float64        `db:"y_cord"`
	XCordAdjusted   float64        `db:"x_cord_adjusted"`
	YCordAdjusted   float64        `db:"y_cord_adjusted"`
	ShooterPlayerID int64          `db:"shooter_player_id"`
	ShooterName     string         `db:"shooter_name"`
	GoalieName      string         `db:"goalie_name_for_shot"`
	XGoal           float64        `db:"x_goal"`
	ShootingRoster  pq.StringArray `db:"shooting_team_players"`
	OpposingRoster  pq.StringArray `db:"opposing_team_players"`
	GameDate        time.Time      `db:"game_date"`
	HomeTeamWon     bool           `db:"home_team_won"`
}

var shotSelectColumns = []string{
	"shot_id",
	"game_id",
	"nhl_game_id",
	"season",
	"is_playoff_game",
	"period",
	"time_seconds",
	"team_code",
	"home_team_code",
	"away_team_code",
	"home_skaters_on_ice",
	"away_skaters_on_ice",
	"event",
	"shot_on_empty_net",
	"x_cord",
	"y_cord",
	"x_cord_adjusted",
	"y_cord_adjusted",
	"shooter_player_id",
	"shooter_name",
	"goalie_name_for_shot",
	"x_goal",
	"shooting_team_players",
	"opposing_team_players",
	"game_date",
	"home_team_won",
}

func shotFromRow(row shotTableModel) shot.Event {
	return shot.Event{
		ShotID:          row.ShotID,
		GameID:          row.GameID,
		NHLGameID:       row.NHLGameID,
		Season:          row.Season,
		IsPlayoffGame:   row.IsPlayoffGame,
		Period:          row.Period,
		TimeSeconds:     row.TimeSeconds,
		TeamCode:        row.TeamCode,
		HomeTeamCode:    row.HomeTeamCode,
		AwayTeamCode:    row.AwayTeamCode,
		HomeSkaters:     row.HomeSkaters,
		AwaySkaters:     row.AwaySkaters,
		Event:           shot.Outcome(row.Event),
		ShotOnEmptyNet:  row.ShotOnEmptyNet,
		XCord:           row.XCord,
		YCord:           row.YCord,
		XCordAdjusted:   row.XCordAdjusted,
		YCordAdjusted:   row.YCordAdjusted,
		ShooterPlayerID: row.ShooterPlayerID,
		ShooterName:     row.ShooterName,
		GoalieName:      row.GoalieName,
		XGoal:           row.XGoal,
		ShootingRoster:  shot.Roster(row.ShootingRoster),
		OpposingRoster:  shot.Roster(row.OpposingRoster),
		GameDate:        row.GameDate,
		HomeTeamWon:     row.HomeTeamWon,
	}
}

func shotToRow(ev shot.Event) shotTableModel {
	return shotTableModel{
		ShotID:          ev.ShotID,
		GameID:          ev.GameID,
		NHLGameID:       ev.NHLGameID,
		Season:          ev.Season,
		IsPlayoffGame:   ev.IsPlayoffGame,
		Period:          ev.Period,
		TimeSeconds:     ev.TimeSeconds,
		TeamCode:        ev.TeamCode,
		HomeTeamCode:    ev.HomeTeamCode,
		AwayTeamCode:    ev.AwayTeamCode,
		HomeSkaters:     ev.HomeSkaters,
		AwaySkaters:     ev.AwaySkaters,
		Event:           string(ev.Event),
		ShotOnEmptyNet:  ev.ShotOnEmptyNet,
		XCord:           ev.XCord,
		YCord:           ev.YCord,
		XCordAdjusted:   ev.XCordAdjusted,
		YCordAdjusted:   ev.YCordAdjusted,
		ShooterPlayerID: ev.ShooterPlayerID,
		ShooterName:     ev.ShooterName,
		GoalieName:      ev.GoalieName,
		XGoal:           ev.XGoal,
		ShootingRoster:  pq.StringArray(ev.ShootingRoster),
		OpposingRoster:  pq.StringArray(ev.OpposingRoster),
		GameDate:        ev.GameDate,
		HomeTeamWon:     ev.HomeTeamWon,
	}
}
