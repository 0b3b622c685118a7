package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	qb "github.com/riskibarqy/hockey-analytics/internal/platform/querybuilder"
)

// ShotRepository reads the shots table. SQL narrows rows by scope and
// participant; roster fragments are re-checked in Go so both stores agree.
type ShotRepository struct {
	db *sqlx.DB
}

func NewShotRepository(db *sqlx.DB) *ShotRepository {
	return &ShotRepository{db: db}
}

func (r *ShotRepository) Fetch(ctx context.Context, filter shot.Filter) ([]shot.Event, error) {
	query, args, err := fetchShotsQuery(filter)
	if err != nil {
		return nil, crerr.Wrap(err, "build select shots query")
	}

	var rows []shotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select shots")
	}

	out := make([]shot.Event, 0, len(rows))
	for _, row := range rows {
		ev := shotFromRow(row)
		if !ev.Eligible() || !filter.Matches(ev) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *ShotRepository) RecentGameIDs(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType, limit int) ([]int64, error) {
	query, args, err := recentGamesQuery(inv, seasonType, limit)
	if err != nil {
		return nil, crerr.Wrap(err, "build select recent games query")
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select recent games")
	}
	return ids, nil
}

func (r *ShotRepository) HasParticipant(ctx context.Context, inv shot.Involvement) (bool, error) {
	query, args, err := qb.Select("1").
		From("shots").
		Where(involvementConditions(inv)...).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build participant lookup query")
	}

	var found int
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, crerr.Wrap(err, "look up participant")
	}
	return true, nil
}

func (r *ShotRepository) Seasons(ctx context.Context, inv shot.Involvement, seasonType shot.SeasonType) ([]int, error) {
	conditions := append(involvementConditions(inv), seasonTypeConditions(seasonType, "")...)
	query, args, err := qb.Select("season").
		Distinct().
		From("shots").
		Where(conditions...).
		OrderBy("season").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select seasons query")
	}

	var seasons []int
	if err := r.db.SelectContext(ctx, &seasons, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select seasons")
	}
	return seasons, nil
}

func fetchShotsQuery(filter shot.Filter) (string, []any, error) {
	conditions := []qb.Condition{
		qb.Lte("x_cord_adjusted", shot.MaxAdjustedX),
		qb.Eq("shot_on_empty_net", false),
	}
	conditions = append(conditions, scopeConditions(filter.Scope, "")...)
	if filter.Involving != nil {
		conditions = append(conditions, involvementConditions(*filter.Involving)...)
	}
	return qb.Select(shotSelectColumns...).
		From("shots").
		Where(conditions...).
		OrderBy("nhl_game_id", "shot_id").
		ToSQL()
}

func recentGamesQuery(inv shot.Involvement, seasonType shot.SeasonType, limit int) (string, []any, error) {
	conditions := append(involvementConditions(inv), seasonTypeConditions(seasonType, "")...)
	// Game ids grow monotonically league-wide, so a rescheduled game keeps its slot.
	return qb.Select("nhl_game_id").
		From("shots").
		Where(conditions...).
		GroupBy("nhl_game_id").
		OrderBy("nhl_game_id DESC").
		Limit(limit).
		ToSQL()
}

// scopeConditions renders a scope against columns of the shots table,
// optionally qualified with prefix.
func scopeConditions(scope shot.Scope, prefix string) []qb.Condition {
	col := func(name string) string { return prefix + name }
	out := make([]qb.Condition, 0, 6)
	if scope.SeasonFrom > 0 {
		out = append(out, qb.Gte(col("season"), scope.SeasonFrom))
	}
	if scope.SeasonTo > 0 {
		out = append(out, qb.Lte(col("season"), scope.SeasonTo))
	}
	if !scope.DateFrom.IsZero() {
		out = append(out, qb.Gte(col("game_date"), scope.DateFrom))
	}
	if !scope.DateTo.IsZero() {
		out = append(out, qb.Lte(col("game_date"), scope.DateTo))
	}
	if scope.RestrictGames {
		out = append(out, qb.Any(col("nhl_game_id"), pq.Array(scope.GameIDs)))
	}
	return append(out, seasonTypeConditions(scope.SeasonType, prefix)...)
}

func seasonTypeConditions(seasonType shot.SeasonType, prefix string) []qb.Condition {
	switch seasonType {
	case shot.SeasonTypeRegular:
		return []qb.Condition{qb.Eq(prefix+"is_playoff_game", false)}
	case shot.SeasonTypePlayoffs:
		return []qb.Condition{qb.Eq(prefix+"is_playoff_game", true)}
	default:
		return nil
	}
}

func involvementConditions(inv shot.Involvement) []qb.Condition {
	out := make([]qb.Condition, 0, 3)
	if code := strings.ToUpper(strings.TrimSpace(inv.TeamCode)); code != "" {
		out = append(out, qb.Or(
			qb.Eq("upper(home_team_code)", code),
			qb.Eq("upper(away_team_code)", code),
		))
	}
	if goalie := shot.NormalizeName(inv.Goalie); goalie != "" {
		out = append(out, qb.Expr("lower(goalie_name_for_shot) = ?", goalie))
	}
	if patterns := likePatterns(inv.Players); len(patterns) > 0 {
		sides := []qb.Condition{
			qb.Expr("array_to_string(shooting_team_players, ',') ILIKE ALL(?)", pq.Array(patterns)),
			qb.Expr("array_to_string(opposing_team_players, ',') ILIKE ALL(?)", pq.Array(patterns)),
		}
		if len(patterns) == 1 {
			sides = append(sides, qb.Expr("shooter_name ILIKE ?", patterns[0]))
		}
		out = append(out, qb.Or(sides...))
	}
	return out
}
