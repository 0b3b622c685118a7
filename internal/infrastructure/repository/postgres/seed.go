package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/hockey-analytics/internal/platform/querybuilder"
	"github.com/samber/lo"
)

// BootstrapSeed loads the demo league into an empty event store in one
// transaction.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM shots`); err != nil {
		return crerr.Wrap(err, "count shots for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	data := memory.Seed()
	shots, err := qb.InsertRows("shots", lo.Map(data.Events, func(ev shot.Event, _ int) shotTableModel {
		return shotToRow(ev)
	}), "nhl_game_id", "shot_id")
	if err != nil {
		return crerr.Wrap(err, "build seed shots")
	}
	logs, err := qb.InsertRows("game_logs", lo.Map(data.Logs, func(l gamelog.Log, _ int) gameLogTableModel {
		return gameLogToRow(l)
	}))
	if err != nil {
		return crerr.Wrap(err, "build seed game logs")
	}
	credits, err := qb.InsertRows("assist_credits", lo.Map(data.Credits, func(c assist.Credit, _ int) assistInsertModel {
		return assistInsertModel{
			NHLGameID:  c.NHLGameID,
			ShotID:     c.ShotID,
			PlayerName: c.PlayerName,
			Role:       string(c.Role),
		}
	}), "nhl_game_id", "shot_id", "role")
	if err != nil {
		return crerr.Wrap(err, "build seed assist credits")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Credits reference shots, so order matters.
	for _, stmt := range lo.Flatten([][]qb.Statement{shots, logs, credits}) {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return crerr.Wrapf(err, "seed %s", firstWords(stmt.SQL, 3))
		}
	}

	return crerr.Wrap(tx.Commit(), "commit seed tx")
}

func firstWords(sql string, n int) string {
	return strings.Join(lo.Slice(strings.Fields(sql), 0, n), " ")
}
