package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type CardConfig struct {
	MinIcetimeSeconds             float64
	SpecialTeamsMinIcetimeSeconds float64
}

type CardQuery struct {
	Player     string
	Season     int
	SeasonType shot.SeasonType
	Mode       situation.StrengthMode
}

type PlayerCard struct {
	Player     entity.Entity
	Season     int
	SeasonType shot.SeasonType
	Scoring    []stat.Result
	// EvenScoring holds goals and points at even strength.
	EvenScoring  []stat.Result
	EvenStrength []stat.Result
	SpecialTeams []stat.Result
	Rates        []stat.Result
}

type PlayerCardService struct {
	stats  *StatsService
	cfg    CardConfig
	logger *logging.Logger
}

func NewPlayerCardService(stats *StatsService, cfg CardConfig, logger *logging.Logger) *PlayerCardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerCardService{stats: stats, cfg: cfg, logger: logger}
}

type cardSection struct {
	target *[]stat.Result
	query  StatQuery
	kinds  []stat.Kind
}

// Card assembles one season's summary for a player. Each section is one
// snapshot; sections are fetched concurrently and fail together.
func (s *PlayerCardService) Card(ctx context.Context, q CardQuery) (PlayerCard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerCardService.Card", attribute.Int("hockey.season", q.Season))
	defer span.End()

	if q.Mode == "" {
		q.Mode = situation.Strict5v5
	}
	if q.SeasonType == "" {
		q.SeasonType = shot.SeasonTypeRegular
	}
	if q.Season == 0 {
		q.Season = s.stats.windows.CurrentSeason()
	}
	player := entity.Player(strings.TrimSpace(q.Player))
	card := PlayerCard{Player: player, Season: q.Season, SeasonType: q.SeasonType}

	base := StatQuery{
		Entity:     player,
		Window:     window.Season(q.Season),
		Situation:  situation.All,
		Mode:       q.Mode,
		SeasonType: q.SeasonType,
	}
	ranked := func(sit situation.Situation, minIcetime float64) StatQuery {
		out := base
		out.Situation = sit
		out.Rank = RankRequest{Enabled: true, Qualification: ranking.Qualification{MinIcetimeSeconds: minIcetime}}
		return out
	}
	evenStrength := base
	evenStrength.Situation = situation.EvenStrength

	var powerPlay, penaltyKill []stat.Result
	sections := []cardSection{
		{target: &card.Scoring, query: base, kinds: []stat.Kind{
			stat.Goals, stat.Assists, stat.Points, stat.PrimaryAssists, stat.PrimaryPoints,
		}},
		{target: &card.EvenStrength, query: ranked(situation.EvenStrength, s.cfg.MinIcetimeSeconds), kinds: []stat.Kind{
			stat.OnIceXGFor, stat.OnIceXGAgainst, stat.ExpectedGoalsShare, stat.GoalsShare,
		}},
		{target: &powerPlay, query: ranked(situation.PowerPlay, s.cfg.SpecialTeamsMinIcetimeSeconds), kinds: []stat.Kind{
			stat.OnIceXGFor,
		}},
		{target: &penaltyKill, query: ranked(situation.Shorthanded, s.cfg.SpecialTeamsMinIcetimeSeconds), kinds: []stat.Kind{
			stat.OnIceXGAgainst,
		}},
		{target: &card.Rates, query: ranked(situation.All, s.cfg.MinIcetimeSeconds), kinds: []stat.Kind{
			stat.GoalsPer60, stat.ExpectedGoalsPer60, stat.Giveaways,
		}},
		{target: &card.EvenScoring, query: evenStrength, kinds: []stat.Kind{
			stat.Goals, stat.Points,
		}},
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, section := range sections {
		p.Go(func(ctx context.Context) error {
			results, err := s.stats.QueryMany(ctx, section.query, section.kinds)
			if err != nil {
				return err
			}
			*section.target = results
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return PlayerCard{}, err
	}

	card.SpecialTeams = append(powerPlay, penaltyKill...)

	s.logger.DebugContext(ctx, "player card built",
		"player", player.Label(),
		"season", q.Season,
	)
	return card, nil
}
