package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	qb "github.com/riskibarqy/hockey-analytics/internal/platform/querybuilder"
)

type GameLogRepository struct {
	db *sqlx.DB
}

func NewGameLogRepository(db *sqlx.DB) *GameLogRepository {
	return &GameLogRepository{db: db}
}

func (r *GameLogRepository) List(ctx context.Context, filter gamelog.Filter) ([]gamelog.Log, error) {
	query, args, err := qb.Select(gameLogSelectColumns...).
		From("game_logs").
		Where(gameLogConditions(filter)...).
		OrderBy("nhl_game_id", "entity_kind", "team_code", "names").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select game logs query")
	}

	var rows []gameLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select game logs")
	}

	out := make([]gamelog.Log, 0, len(rows))
	for _, row := range rows {
		l := gameLogFromRow(row)
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Totals sums rows per subject in the database, then merges subjects whose
// names differ only in case or spacing.
func (r *GameLogRepository) Totals(ctx context.Context, filter gamelog.Filter) ([]gamelog.Total, error) {
	query, args, err := gameLogTotalsQuery(filter)
	if err != nil {
		return nil, crerr.Wrap(err, "build select game log totals query")
	}

	var rows []gameLogTotalModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select game log totals")
	}

	index := make(map[string]int, len(rows))
	out := make([]gamelog.Total, 0, len(rows))
	for _, row := range rows {
		id := row.identity()
		if filter.Entity != nil && !gamelog.Identifies(id, *filter.Entity) {
			continue
		}
		key := id.Key()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, gamelog.Total{Entity: id.Entity()})
		}
		t := &out[i]
		t.Games += row.Games
		t.IcetimeSeconds += row.IcetimeSeconds
		t.Points += row.Points
		t.Hits += row.Hits
		t.Takeaways += row.Takeaways
		t.Giveaways += row.Giveaways
		t.BlockedShots += row.BlockedShots
		t.ShotsFaced += row.ShotsFaced
	}
	return out, nil
}

func gameLogTotalsQuery(filter gamelog.Filter) (string, []any, error) {
	return qb.Select(gameLogTotalColumns...).
		From("game_logs").
		Where(gameLogConditions(filter)...).
		GroupBy("entity_kind", "names", "CASE WHEN entity_kind = 'team' THEN upper(team_code) ELSE '' END").
		OrderBy("entity_kind", "names").
		ToSQL()
}

func gameLogConditions(filter gamelog.Filter) []qb.Condition {
	conditions := []qb.Condition{
		qb.Eq("entity_kind", string(filter.Kind)),
		qb.Eq("situation", string(filter.Situation)),
	}
	conditions = append(conditions, scopeConditions(filter.Scope, "")...)
	if filter.Entity != nil {
		conditions = append(conditions, gameLogEntityConditions(*filter.Entity)...)
	}
	return conditions
}

func gameLogEntityConditions(e entity.Entity) []qb.Condition {
	switch e.Kind {
	case entity.KindTeam:
		return []qb.Condition{qb.Eq("upper(team_code)", strings.ToUpper(strings.TrimSpace(e.TeamCode)))}
	case entity.KindPlayer, entity.KindGoalie:
		return []qb.Condition{
			qb.Eq("cardinality(names)", 1),
			qb.Expr("lower(names[1]) = ?", shot.NormalizeName(e.Names[0])),
		}
	default:
		return []qb.Condition{
			qb.Eq("cardinality(names)", len(e.Names)),
			qb.Expr("array_to_string(names, ',') ILIKE ALL(?)", pq.Array(likePatterns(e.Names))),
		}
	}
}
