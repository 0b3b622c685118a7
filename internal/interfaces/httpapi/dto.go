package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/samber/lo"
)

type entityRequest struct {
	Kind  string   `json:"kind" validate:"required,oneof=player goalie team line pairing"`
	Names []string `json:"names" validate:"max=3,dive,required,max=80"`
	Team  string   `json:"team" validate:"omitempty,alpha,max=5"`
}

func (r entityRequest) toEntity() entity.Entity {
	return entity.Entity{
		Kind:     entity.Kind(r.Kind),
		Names:    lo.Map(r.Names, func(name string, _ int) string { return strings.TrimSpace(name) }),
		TeamCode: strings.ToUpper(strings.TrimSpace(r.Team)),
	}
}

type windowRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=season_range date_range trailing_games"`
	SeasonFrom int    `json:"season_from" validate:"gte=0"`
	SeasonTo   int    `json:"season_to" validate:"gte=0"`
	DateFrom   string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Games      int    `json:"games" validate:"gte=0"`
}

func (r windowRequest) toWindow() (window.Window, error) {
	w := window.Window{
		Kind:       window.Kind(r.Kind),
		SeasonFrom: r.SeasonFrom,
		SeasonTo:   r.SeasonTo,
		Games:      r.Games,
	}
	var err error
	if w.DateFrom, err = parseDay("date_from", r.DateFrom); err != nil {
		return window.Window{}, err
	}
	if w.DateTo, err = parseDay("date_to", r.DateTo); err != nil {
		return window.Window{}, err
	}
	return w, nil
}

func parseDay(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", window.ErrInvalidRange, field)
	}
	return day, nil
}

type rankRequest struct {
	MinIcetimeSeconds float64 `json:"min_icetime_seconds" validate:"gte=0"`
	MinShotsFaced     int     `json:"min_shots_faced" validate:"gte=0"`
}

func (r *rankRequest) toRank() usecase.RankRequest {
	if r == nil {
		return usecase.RankRequest{}
	}
	return usecase.RankRequest{
		Enabled: true,
		Qualification: ranking.Qualification{
			MinIcetimeSeconds: r.MinIcetimeSeconds,
			MinShotsFaced:     r.MinShotsFaced,
		},
	}
}

type statQueryRequest struct {
	Entity       entityRequest `json:"entity" validate:"required"`
	Window       windowRequest `json:"window" validate:"required"`
	Situation    string        `json:"situation" validate:"omitempty,oneof=all even_strength power_play shorthanded other"`
	StrengthMode string        `json:"strength_mode" validate:"omitempty,oneof=strict_5v5 any_equal"`
	SeasonType   string        `json:"season_type" validate:"omitempty,oneof=regular playoffs all"`
	Stat         string        `json:"stat" validate:"omitempty,max=64"`
	Stats        []string      `json:"stats" validate:"max=32,dive,required,max=64"`
	Rank         *rankRequest  `json:"rank"`
}

func (r statQueryRequest) toQuery() (usecase.StatQuery, error) {
	w, err := r.Window.toWindow()
	if err != nil {
		return usecase.StatQuery{}, err
	}
	return usecase.StatQuery{
		Entity:     r.Entity.toEntity(),
		Window:     w,
		Situation:  situation.Situation(r.Situation),
		Mode:       situation.StrengthMode(r.StrengthMode),
		SeasonType: shot.SeasonType(r.SeasonType),
		Stat:       stat.Kind(r.Stat),
		Rank:       r.Rank.toRank(),
	}, nil
}

// kinds merges the single stat field with the stats list, keeping order.
func (r statQueryRequest) kinds() []stat.Kind {
	names := r.Stats
	if r.Stat != "" {
		names = append([]string{r.Stat}, names...)
	}
	return lo.Uniq(lo.Map(names, func(name string, _ int) stat.Kind {
		return stat.Kind(strings.TrimSpace(name))
	}))
}

type careerRequest struct {
	Entity       entityRequest `json:"entity" validate:"required"`
	Seasons      []int         `json:"seasons" validate:"max=60,dive,gte=1900"`
	Situation    string        `json:"situation" validate:"omitempty,oneof=all even_strength power_play shorthanded other"`
	StrengthMode string        `json:"strength_mode" validate:"omitempty,oneof=strict_5v5 any_equal"`
	SeasonType   string        `json:"season_type" validate:"omitempty,oneof=regular playoffs all"`
	Stats        []string      `json:"stats" validate:"required,min=1,max=32,dive,required,max=64"`
	Rank         *rankRequest  `json:"rank"`
}

func (r careerRequest) toQuery() usecase.CareerQuery {
	return usecase.CareerQuery{
		Entity:     r.Entity.toEntity(),
		Seasons:    r.Seasons,
		Situation:  situation.Situation(r.Situation),
		Mode:       situation.StrengthMode(r.StrengthMode),
		SeasonType: shot.SeasonType(r.SeasonType),
		Stats: lo.Uniq(lo.Map(r.Stats, func(name string, _ int) stat.Kind {
			return stat.Kind(strings.TrimSpace(name))
		})),
		Rank: r.Rank.toRank(),
	}
}

type milestoneRequest struct {
	Player     string        `json:"player" validate:"required,max=80"`
	Window     windowRequest `json:"window" validate:"required"`
	SeasonType string        `json:"season_type" validate:"omitempty,oneof=regular playoffs all"`
	MinGoals   int           `json:"min_goals" validate:"required,min=1,max=10"`
}

type recordRequest struct {
	Team         string        `json:"team" validate:"required,alpha,max=5"`
	Window       windowRequest `json:"window" validate:"required"`
	SeasonType   string        `json:"season_type" validate:"omitempty,oneof=regular playoffs all"`
	Situation    string        `json:"situation" validate:"omitempty,oneof=all even_strength power_play shorthanded other"`
	StrengthMode string        `json:"strength_mode" validate:"omitempty,oneof=strict_5v5 any_equal"`
	Scorer       string        `json:"scorer" validate:"omitempty,max=80"`
}

type resolveWindowRequest struct {
	Entity     entityRequest `json:"entity" validate:"required"`
	Window     windowRequest `json:"window" validate:"required"`
	SeasonType string        `json:"season_type" validate:"omitempty,oneof=regular playoffs all"`
}

type entityDTO struct {
	Kind  string   `json:"kind"`
	Names []string `json:"names,omitempty"`
	Team  string   `json:"team,omitempty"`
	Label string   `json:"label"`
}

func entityToDTO(e entity.Entity) entityDTO {
	return entityDTO{
		Kind:  string(e.Kind),
		Names: e.Names,
		Team:  e.TeamCode,
		Label: e.Label(),
	}
}

type recordDTO struct {
	Wins             int     `json:"wins"`
	RegulationLosses int     `json:"regulation_losses"`
	OvertimeLosses   int     `json:"overtime_losses"`
	Total            int     `json:"total"`
	Display          string  `json:"display"`
	GameIDs          []int64 `json:"game_ids,omitempty"`
}

func recordToDTO(r *stat.Record) *recordDTO {
	if r == nil {
		return nil
	}
	return &recordDTO{
		Wins:             r.Wins,
		RegulationLosses: r.RegulationLosses,
		OvertimeLosses:   r.OvertimeLosses,
		Total:            r.Total,
		Display:          r.String(),
		GameIDs:          r.GameIDs,
	}
}

type statResultDTO struct {
	Entity     entityDTO  `json:"entity"`
	Stat       string     `json:"stat"`
	Family     string     `json:"family"`
	Status     string     `json:"status"`
	Value      *float64   `json:"value,omitempty"`
	Display    string     `json:"display,omitempty"`
	Events     int        `json:"events"`
	Record     *recordDTO `json:"record,omitempty"`
	RankStatus string     `json:"rank_status"`
	Percentile *float64   `json:"percentile,omitempty"`
	Rank       int        `json:"rank,omitempty"`
	CohortSize int        `json:"cohort_size,omitempty"`
	GameIDs    []int64    `json:"game_ids,omitempty"`
}

func resultToDTO(r stat.Result) statResultDTO {
	dto := statResultDTO{
		Entity:     entityToDTO(r.Entity),
		Stat:       string(r.Stat),
		Family:     string(r.Family),
		Status:     string(r.Status),
		Display:    r.Display,
		Events:     r.Events,
		Record:     recordToDTO(r.Record),
		RankStatus: string(r.RankStatus),
		GameIDs:    r.GameIDs,
	}
	if r.Status == stat.StatusOK {
		dto.Value = lo.ToPtr(r.Value)
	}
	if r.RankStatus == stat.RankRanked {
		dto.Percentile = lo.ToPtr(r.Percentile)
		dto.Rank = r.Rank
		dto.CohortSize = r.CohortSize
	}
	return dto
}

func resultsToDTO(results []stat.Result) []statResultDTO {
	return lo.Map(results, func(r stat.Result, _ int) statResultDTO { return resultToDTO(r) })
}

type seasonLineDTO struct {
	Season         int             `json:"season"`
	IcetimeSeconds float64         `json:"icetime_seconds"`
	Results        []statResultDTO `json:"results"`
}

type careerStatDTO struct {
	Stat          string     `json:"stat"`
	Family        string     `json:"family"`
	Status        string     `json:"status"`
	Value         *float64   `json:"value,omitempty"`
	Display       string     `json:"display,omitempty"`
	Seasons       int        `json:"seasons"`
	AvgPercentile *float64   `json:"avg_percentile,omitempty"`
	RankedSeasons int        `json:"ranked_seasons"`
	Record        *recordDTO `json:"record,omitempty"`
}

type careerDTO struct {
	Entity  entityDTO       `json:"entity"`
	Career  bool            `json:"career"`
	Lines   []seasonLineDTO `json:"seasons"`
	Skipped []int           `json:"skipped_seasons,omitempty"`
	Totals  []careerStatDTO `json:"totals"`
}

func careerToDTO(c usecase.CareerSummary) careerDTO {
	return careerDTO{
		Entity: entityToDTO(c.Entity),
		Career: c.Career,
		Lines: lo.Map(c.Lines, func(l usecase.SeasonLine, _ int) seasonLineDTO {
			return seasonLineDTO{
				Season:         l.Season,
				IcetimeSeconds: l.IcetimeSeconds,
				Results:        resultsToDTO(l.Results),
			}
		}),
		Skipped: c.Skipped,
		Totals: lo.Map(c.Totals, func(t usecase.CareerStat, _ int) careerStatDTO {
			dto := careerStatDTO{
				Stat:          string(t.Stat),
				Family:        string(t.Family),
				Status:        string(t.Status),
				Display:       t.Display,
				Seasons:       t.Seasons,
				RankedSeasons: t.RankedSeasons,
				Record:        recordToDTO(t.Record),
			}
			if t.Status == stat.StatusOK {
				dto.Value = lo.ToPtr(t.Value)
			}
			if t.RankedSeasons > 0 {
				dto.AvgPercentile = lo.ToPtr(t.AvgPercentile)
			}
			return dto
		}),
	}
}

type milestoneDTO struct {
	NHLGameID int64  `json:"nhl_game_id"`
	GameDate  string `json:"game_date"`
	Opponent  string `json:"opponent"`
	Goals     int    `json:"goals"`
}

func milestonesToDTO(items []stat.Milestone) []milestoneDTO {
	return lo.Map(items, func(m stat.Milestone, _ int) milestoneDTO {
		return milestoneDTO{
			NHLGameID: m.NHLGameID,
			GameDate:  m.GameDate.Format(time.DateOnly),
			Opponent:  m.Opponent,
			Goals:     m.Goals,
		}
	})
}

type resolvedWindowDTO struct {
	Kind       string  `json:"kind"`
	SeasonFrom int     `json:"season_from,omitempty"`
	SeasonTo   int     `json:"season_to,omitempty"`
	DateFrom   string  `json:"date_from,omitempty"`
	DateTo     string  `json:"date_to,omitempty"`
	SeasonType string  `json:"season_type"`
	GameIDs    []int64 `json:"game_ids"`
}

func resolvedToDTO(r window.Resolved) resolvedWindowDTO {
	dto := resolvedWindowDTO{
		Kind:       string(r.Window.Kind),
		SeasonFrom: r.Scope.SeasonFrom,
		SeasonTo:   r.Scope.SeasonTo,
		SeasonType: string(r.Scope.SeasonType),
		GameIDs:    r.GameIDs,
	}
	if !r.Scope.DateFrom.IsZero() {
		dto.DateFrom = r.Scope.DateFrom.Format(time.DateOnly)
	}
	if !r.Scope.DateTo.IsZero() {
		dto.DateTo = r.Scope.DateTo.Format(time.DateOnly)
	}
	if dto.GameIDs == nil {
		dto.GameIDs = []int64{}
	}
	return dto
}

type playerCardDTO struct {
	Player       entityDTO       `json:"player"`
	Season       int             `json:"season"`
	SeasonType   string          `json:"season_type"`
	Scoring      []statResultDTO `json:"scoring"`
	EvenScoring  []statResultDTO `json:"even_scoring"`
	EvenStrength []statResultDTO `json:"even_strength"`
	SpecialTeams []statResultDTO `json:"special_teams"`
	Rates        []statResultDTO `json:"rates"`
}

func playerCardToDTO(c usecase.PlayerCard) playerCardDTO {
	return playerCardDTO{
		Player:       entityToDTO(c.Player),
		Season:       c.Season,
		SeasonType:   string(c.SeasonType),
		Scoring:      resultsToDTO(c.Scoring),
		EvenScoring:  resultsToDTO(c.EvenScoring),
		EvenStrength: resultsToDTO(c.EvenStrength),
		SpecialTeams: resultsToDTO(c.SpecialTeams),
		Rates:        resultsToDTO(c.Rates),
	}
}

type gameLogDTO struct {
	EntityKind     string   `json:"entity_kind"`
	Names          []string `json:"names,omitempty"`
	Team           string   `json:"team"`
	NHLGameID      int64    `json:"nhl_game_id"`
	Season         int      `json:"season"`
	IsPlayoffGame  bool     `json:"is_playoff_game"`
	GameDate       string   `json:"game_date"`
	Situation      string   `json:"situation"`
	IcetimeSeconds float64  `json:"icetime_seconds"`
	Points         int      `json:"points"`
	Hits           int      `json:"hits"`
	Takeaways      int      `json:"takeaways"`
	Giveaways      int      `json:"giveaways"`
	BlockedShots   int      `json:"blocked_shots"`
	ShotsFaced     int      `json:"shots_faced,omitempty"`
}

func gameLogsToDTO(logs []gamelog.Log) []gameLogDTO {
	return lo.Map(logs, func(l gamelog.Log, _ int) gameLogDTO {
		return gameLogDTO{
			EntityKind:     string(l.EntityKind),
			Names:          l.Names,
			Team:           l.TeamCode,
			NHLGameID:      l.NHLGameID,
			Season:         l.Season,
			IsPlayoffGame:  l.IsPlayoffGame,
			GameDate:       l.GameDate.Format(time.DateOnly),
			Situation:      string(l.Situation),
			IcetimeSeconds: l.IcetimeSeconds,
			Points:         l.Points,
			Hits:           l.Hits,
			Takeaways:      l.Takeaways,
			Giveaways:      l.Giveaways,
			BlockedShots:   l.BlockedShots,
			ShotsFaced:     l.ShotsFaced,
		}
	})
}
