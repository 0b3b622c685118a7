package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	qb "github.com/riskibarqy/hockey-analytics/internal/platform/querybuilder"
)

type assistCreditModel struct {
	NHLGameID     int64     `db:"nhl_game_id"`
	ShotID        int64     `db:"shot_id"`
	PlayerName    string    `db:"player_name"`
	Role          string    `db:"role"`
	Season        int       `db:"season"`
	IsPlayoffGame bool      `db:"is_playoff_game"`
	GameDate      time.Time `db:"game_date"`
}

type assistInsertModel struct {
	NHLGameID  int64  `db:"nhl_game_id"`
	ShotID     int64  `db:"shot_id"`
	PlayerName string `db:"player_name"`
	Role       string `db:"role"`
}

// AssistRepository reads assist_credits joined to the credited goal so the
// shot scope applies.
type AssistRepository struct {
	db *sqlx.DB
}

func NewAssistRepository(db *sqlx.DB) *AssistRepository {
	return &AssistRepository{db: db}
}

func (r *AssistRepository) List(ctx context.Context, filter assist.Filter) ([]assist.Credit, error) {
	query, args, err := assistCreditsQuery(filter)
	if err != nil {
		return nil, crerr.Wrap(err, "build select assist credits query")
	}

	var rows []assistCreditModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select assist credits")
	}

	out := make([]assist.Credit, 0, len(rows))
	for _, row := range rows {
		out = append(out, assist.Credit{
			NHLGameID:     row.NHLGameID,
			ShotID:        row.ShotID,
			PlayerName:    row.PlayerName,
			Role:          assist.Role(row.Role),
			Season:        row.Season,
			IsPlayoffGame: row.IsPlayoffGame,
			GameDate:      row.GameDate,
		})
	}
	return out, nil
}

func assistCreditsQuery(filter assist.Filter) (string, []any, error) {
	conditions := scopeConditions(filter.Scope, "s.")
	if player := shot.NormalizeName(filter.Player); player != "" {
		conditions = append(conditions, qb.Expr("lower(a.player_name) = ?", player))
	}
	return qb.Select(
		"a.nhl_game_id",
		"a.shot_id",
		"a.player_name",
		"a.role",
		"s.season",
		"s.is_playoff_game",
		"s.game_date",
	).
		From("assist_credits a JOIN shots s ON s.nhl_game_id = a.nhl_game_id AND s.shot_id = a.shot_id").
		Where(conditions...).
		OrderBy("a.nhl_game_id", "a.shot_id", "a.role").
		ToSQL()
}
