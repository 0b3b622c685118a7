package usecase

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	gonumstat "gonum.org/v1/gonum/stat"
)

type CareerConfig struct {
	// MinIcetimeSeconds is the all-situations ice time a season must exceed
	// to count toward a full career.
	MinIcetimeSeconds float64
	Workers           int
	FetchTimeout      time.Duration
}

type CareerQuery struct {
	Entity entity.Entity
	// Seasons lists season start years; empty means the full career.
	Seasons    []int
	Situation  situation.Situation
	Mode       situation.StrengthMode
	SeasonType shot.SeasonType
	Stats      []stat.Kind
	Rank       RankRequest
}

type SeasonLine struct {
	Season         int
	IcetimeSeconds float64
	Results        []stat.Result
}

type CareerStat struct {
	Stat          stat.Kind
	Family        stat.Family
	Status        stat.Status
	Value         float64
	Display       string
	Seasons       int
	AvgPercentile float64
	RankedSeasons int
	Record        *stat.Record
}

type CareerSummary struct {
	Entity entity.Entity
	Career bool
	Lines  []SeasonLine
	// Skipped holds full-career seasons below the activity threshold.
	Skipped []int
	Totals  []CareerStat
}

type CareerService struct {
	shots  shot.Repository
	logs   gamelog.Repository
	stats  *StatsService
	logger *logging.Logger
	cfg    CareerConfig
}

func NewCareerService(shots shot.Repository, logs gamelog.Repository, stats *StatsService, cfg CareerConfig, logger *logging.Logger) *CareerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CareerService{shots: shots, logs: logs, stats: stats, logger: logger, cfg: cfg}
}

// Aggregate combines per-season statistics. A full career keeps only
// seasons above the activity threshold; an explicit list keeps every season.
func (s *CareerService) Aggregate(ctx context.Context, q CareerQuery) (CareerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CareerService.Aggregate", entityAttrs(q.Entity)...)
	defer span.End()

	base := normalizeQuery(StatQuery{
		Entity:     q.Entity,
		Window:     window.Season(window.FirstSeason),
		Situation:  q.Situation,
		Mode:       q.Mode,
		SeasonType: q.SeasonType,
		Rank:       q.Rank,
	})
	if _, err := validateQuery(base, q.Stats, s.stats.windows.Today()); err != nil {
		return CareerSummary{}, err
	}
	for _, season := range q.Seasons {
		if err := window.Season(season).Validate(s.stats.windows.Today()); err != nil {
			return CareerSummary{}, err
		}
	}

	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	summary := CareerSummary{Entity: base.Entity, Career: len(q.Seasons) == 0}
	seasons := slices.Clone(q.Seasons)
	if summary.Career {
		found, err := s.shots.Seasons(ctx, base.Entity.Involvement(), base.SeasonType)
		if err != nil {
			return CareerSummary{}, fetchFailed("list seasons", err)
		}
		if len(found) == 0 {
			return CareerSummary{}, fmt.Errorf("%w: %s", ErrUnresolvedEntity, base.Entity.Label())
		}
		seasons = found
	}
	slices.Sort(seasons)
	seasons = slices.Compact(seasons)

	lines, skipped, err := s.collect(ctx, base, q.Stats, seasons, summary.Career)
	if err != nil {
		return CareerSummary{}, err
	}
	summary.Lines = lines
	summary.Skipped = skipped
	summary.Totals = combineSeasons(q.Stats, lines)

	s.logger.DebugContext(ctx, "career aggregated",
		"entity", base.Entity.Label(),
		"career", summary.Career,
		"seasons", len(lines),
		"skipped", len(skipped),
	)
	return summary, nil
}

type seasonOutcome struct {
	line    SeasonLine
	skipped bool
	err     error
}

func (s *CareerService) collect(ctx context.Context, base StatQuery, kinds []stat.Kind, seasons []int, career bool) ([]SeasonLine, []int, error) {
	workerCount := s.cfg.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	outcomes := make([]seasonOutcome, len(seasons))
	var workers sync.WaitGroup
	for i, season := range seasons {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			outcomes[i] = s.season(ctx, base, kinds, season, career)
		}); err != nil {
			workers.Done()
			return nil, nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	lines := make([]SeasonLine, 0, len(seasons))
	skipped := make([]int, 0)
	for i, outcome := range outcomes {
		switch {
		case outcome.err != nil:
			return nil, nil, fmt.Errorf("season %d: %w", seasons[i], outcome.err)
		case outcome.skipped:
			skipped = append(skipped, seasons[i])
		default:
			lines = append(lines, outcome.line)
		}
	}
	return lines, skipped, nil
}

func (s *CareerService) season(ctx context.Context, base StatQuery, kinds []stat.Kind, season int, career bool) seasonOutcome {
	w := window.Season(season)
	icetime, err := s.seasonIcetime(ctx, base, w)
	if err != nil {
		return seasonOutcome{err: err}
	}
	if career && icetime <= s.cfg.MinIcetimeSeconds {
		return seasonOutcome{skipped: true}
	}

	q := base
	q.Window = w
	results, err := s.stats.QueryMany(ctx, q, kinds)
	if err != nil {
		return seasonOutcome{err: err}
	}
	return seasonOutcome{line: SeasonLine{Season: season, IcetimeSeconds: icetime, Results: results}}
}

func (s *CareerService) seasonIcetime(ctx context.Context, base StatQuery, w window.Window) (float64, error) {
	subject := base.Entity
	totals, err := s.logs.Totals(ctx, gamelog.Filter{
		Scope:     w.Scope(s.stats.windows.Today(), base.SeasonType),
		Kind:      subject.Kind,
		Entity:    &subject,
		Situation: situation.All,
	})
	if err != nil {
		return 0, fetchFailed("fetch season ice time", err)
	}
	return mergeTotals(subject, totals).IcetimeSeconds, nil
}

// combineSeasons sums counts and averages shares, ratios and rates across
// the seasons that produced a value. Percentiles average over ranked seasons.
func combineSeasons(kinds []stat.Kind, lines []SeasonLine) []CareerStat {
	out := make([]CareerStat, 0, len(kinds))
	for i, kind := range kinds {
		def, _ := stat.Lookup(kind)
		cs := CareerStat{Stat: kind, Family: def.Family, Status: stat.StatusNoData}

		values := make([]float64, 0, len(lines))
		percentiles := make([]float64, 0, len(lines))
		var record *stat.Record
		for _, line := range lines {
			res := line.Results[i]
			if res.Status != stat.StatusOK {
				continue
			}
			values = append(values, res.Value)
			if res.RankStatus == stat.RankRanked {
				percentiles = append(percentiles, res.Percentile)
			}
			if res.Record != nil {
				record = addRecord(record, *res.Record)
			}
		}

		cs.Seasons = len(values)
		if len(values) > 0 {
			cs.Status = stat.StatusOK
			if def.Family.Averaged() {
				cs.Value = gonumstat.Mean(values, nil)
			} else {
				cs.Value = sumValues(values)
			}
			cs.Display = stat.Format(kind, cs.Value)
		}
		if record != nil {
			cs.Record = record
			cs.Display = record.String()
		}
		if len(percentiles) > 0 {
			cs.AvgPercentile = ranking.Round(gonumstat.Mean(percentiles, nil), 1)
			cs.RankedSeasons = len(percentiles)
		}
		out = append(out, cs)
	}
	return out
}

func sumValues(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func addRecord(acc *stat.Record, r stat.Record) *stat.Record {
	if acc == nil {
		acc = &stat.Record{}
	}
	acc.Wins += r.Wins
	acc.RegulationLosses += r.RegulationLosses
	acc.OvertimeLosses += r.OvertimeLosses
	acc.Total += r.Total
	acc.GameIDs = append(acc.GameIDs, r.GameIDs...)
	return acc
}
