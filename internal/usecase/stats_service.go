package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type StatsConfig struct {
	// FetchTimeout bounds every store read of one query.
	FetchTimeout time.Duration
	RankWorkers  int
}

type RankRequest struct {
	Enabled       bool
	Qualification ranking.Qualification
}

type StatQuery struct {
	Entity     entity.Entity
	Window     window.Window
	Situation  situation.Situation
	Mode       situation.StrengthMode
	SeasonType shot.SeasonType
	Stat       stat.Kind
	Rank       RankRequest
}

type StatsService struct {
	shots    shot.Repository
	logs     gamelog.Repository
	credits  assist.Repository
	windows  *WindowSelector
	recorder QueryRecorder
	logger   *logging.Logger
	cfg      StatsConfig
}

func NewStatsService(
	shots shot.Repository,
	logs gamelog.Repository,
	credits assist.Repository,
	windows *WindowSelector,
	cfg StatsConfig,
	recorder QueryRecorder,
	logger *logging.Logger,
) *StatsService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		shots:    shots,
		logs:     logs,
		credits:  credits,
		windows:  windows,
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *StatsService) Query(ctx context.Context, q StatQuery) (stat.Result, error) {
	results, err := s.QueryMany(ctx, q, []stat.Kind{q.Stat})
	if err != nil {
		return stat.Result{}, err
	}
	return results[0], nil
}

// QueryMany computes several statistics for one subject off a single
// snapshot. Either every result is returned or none is.
func (s *StatsService) QueryMany(ctx context.Context, q StatQuery, kinds []stat.Kind) ([]stat.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.QueryMany", append(entityAttrs(q.Entity), attribute.Int("hockey.stat.count", len(kinds)))...)
	defer span.End()

	started := time.Now()
	q = normalizeQuery(q)
	defs, err := validateQuery(q, kinds, s.windows.Today())
	if err != nil {
		s.observe(kinds, "invalid", started)
		return nil, err
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	results, err := s.queryMany(ctx, q, defs)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			s.recorder.IncTimeout()
		}
		s.observe(kinds, "error", started)
		return nil, err
	}
	for _, res := range results {
		s.recorder.ObserveQuery(string(res.Stat), string(res.Status), time.Since(started))
	}
	return results, nil
}

func (s *StatsService) queryMany(ctx context.Context, q StatQuery, defs []stat.Definition) ([]stat.Result, error) {
	if err := s.ensureParticipant(ctx, q.Entity); err != nil {
		return nil, err
	}
	resolved, err := s.windows.Resolve(ctx, q.Window, q.Entity, q.SeasonType)
	if err != nil {
		return nil, err
	}

	withCredits := needsCredits(defs)
	snap, err := s.subjectSnapshot(ctx, q, resolved, withCredits)
	if err != nil {
		return nil, err
	}

	in := stat.Input{
		Entity:    q.Entity,
		Situation: q.Situation,
		Mode:      q.Mode,
		Events:    snap.events,
		Logs:      snap.logs,
		Credits:   snap.credits,
		Goals:     stat.IndexGoals(snap.events),
	}
	results := make([]stat.Result, 0, len(defs))
	for _, def := range defs {
		v, err := stat.Aggregate(def.Kind, in)
		if err != nil {
			return nil, invalid(err)
		}
		res := stat.NewResult(q.Entity, def.Kind, v)
		res.GameIDs = resolved.GameIDs
		results = append(results, res)
	}

	if !q.Rank.Enabled {
		return results, nil
	}
	if !q.Rank.Qualification.Admits(snap.logs.IcetimeSeconds, snap.logs.ShotsFaced) {
		for i := range results {
			results[i].NotRanked()
		}
		return results, nil
	}

	league, err := s.cohortSnapshot(ctx, q, resolved, withCredits)
	if err != nil {
		return nil, err
	}
	for i, def := range defs {
		if results[i].Status != stat.StatusOK {
			results[i].NotRanked()
			continue
		}
		placement, ok, err := s.place(ctx, q, def, results[i].Value, league)
		if err != nil {
			return nil, err
		}
		if !ok {
			results[i].NotRanked()
			continue
		}
		results[i].Place(placement)
		s.logger.DebugContext(ctx, "statistic ranked",
			"stat", def.Kind,
			"entity", q.Entity.Label(),
			"rank", placement.Rank,
			"cohort_size", placement.CohortSize,
		)
	}
	return results, nil
}

// ResolveWindow returns the concrete scope and, for trailing windows, the game ids.
func (s *StatsService) ResolveWindow(ctx context.Context, e entity.Entity, w window.Window, seasonType shot.SeasonType) (window.Resolved, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ResolveWindow", entityAttrs(e)...)
	defer span.End()

	if seasonType == "" {
		seasonType = shot.SeasonTypeRegular
	}
	if err := e.Validate(); err != nil {
		return window.Resolved{}, invalid(err)
	}
	if !seasonType.Valid() {
		return window.Resolved{}, fmt.Errorf("%w: unknown season type %q", ErrInvalidInput, seasonType)
	}
	if err := w.Validate(s.windows.Today()); err != nil {
		return window.Resolved{}, err
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	if err := s.ensureParticipant(ctx, e); err != nil {
		return window.Resolved{}, err
	}
	return s.windows.Resolve(ctx, w, e, seasonType)
}

type MilestoneQuery struct {
	Player     string
	Window     window.Window
	SeasonType shot.SeasonType
	MinGoals   int
}

// Milestones lists the games in which a player scored at least MinGoals.
func (s *StatsService) Milestones(ctx context.Context, q MilestoneQuery) ([]stat.Milestone, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Milestones", attribute.Int("hockey.milestone.min_goals", q.MinGoals))
	defer span.End()

	player := entity.Player(strings.TrimSpace(q.Player))
	if err := player.Validate(); err != nil {
		return nil, invalid(err)
	}
	if q.MinGoals < 1 {
		return nil, fmt.Errorf("%w: min goals must be >= 1", ErrInvalidInput)
	}
	if q.SeasonType == "" {
		q.SeasonType = shot.SeasonTypeRegular
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	events, _, err := s.windowEvents(ctx, player, q.Window, q.SeasonType)
	if err != nil {
		return nil, err
	}
	return stat.MilestoneGames(events, player.Names[0], q.MinGoals), nil
}

type RecordQuery struct {
	Team       string
	Window     window.Window
	SeasonType shot.SeasonType
	Situation  situation.Situation
	Mode       situation.StrengthMode
	Scorer     string
}

// Record computes a team's record over games meeting the query's condition.
func (s *StatsService) Record(ctx context.Context, q RecordQuery) (stat.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Record", attribute.String("hockey.team", q.Team), attribute.String("hockey.situation", string(q.Situation)))
	defer span.End()

	team := entity.Team(strings.TrimSpace(q.Team))
	if err := team.Validate(); err != nil {
		return stat.Record{}, invalid(err)
	}
	if q.Situation == "" {
		q.Situation = situation.All
	}
	if err := situation.Validate(q.Situation, q.Mode); err != nil {
		return stat.Record{}, invalid(err)
	}
	if q.SeasonType == "" {
		q.SeasonType = shot.SeasonTypeRegular
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	events, _, err := s.windowEvents(ctx, team, q.Window, q.SeasonType)
	if err != nil {
		return stat.Record{}, err
	}
	return stat.TeamRecord(events, team.TeamCode, stat.RecordCondition{
		Situation: q.Situation,
		Mode:      q.Mode,
		Scorer:    strings.TrimSpace(q.Scorer),
	}), nil
}

func (s *StatsService) windowEvents(ctx context.Context, e entity.Entity, w window.Window, seasonType shot.SeasonType) ([]shot.Event, window.Resolved, error) {
	if err := w.Validate(s.windows.Today()); err != nil {
		return nil, window.Resolved{}, err
	}
	if err := s.ensureParticipant(ctx, e); err != nil {
		return nil, window.Resolved{}, err
	}
	resolved, err := s.windows.Resolve(ctx, w, e, seasonType)
	if err != nil {
		return nil, window.Resolved{}, err
	}
	events, err := s.shots.Fetch(ctx, eventFilter(e, resolved))
	if err != nil {
		return nil, window.Resolved{}, fetchFailed("fetch shot events", err)
	}
	s.recorder.ObserveFetch(len(events))
	return events, resolved, nil
}

func (s *StatsService) ensureParticipant(ctx context.Context, e entity.Entity) error {
	ok, err := s.shots.HasParticipant(ctx, e.Involvement())
	if err != nil {
		return fetchFailed("look up entity", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s matches no rostered %s", ErrUnresolvedEntity, e.Label(), e.Kind)
	}
	return nil
}

type snapshot struct {
	events  []shot.Event
	logs    gamelog.Total
	credits []assist.Credit
}

func (s *StatsService) subjectSnapshot(ctx context.Context, q StatQuery, resolved window.Resolved, withCredits bool) (snapshot, error) {
	var snap snapshot
	subject := q.Entity

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		events, err := s.shots.Fetch(ctx, eventFilter(subject, resolved))
		if err != nil {
			return fetchFailed("fetch shot events", err)
		}
		snap.events = events
		return nil
	})
	p.Go(func(ctx context.Context) error {
		totals, err := s.logs.Totals(ctx, gamelog.Filter{
			Scope:     resolved.Scope,
			Kind:      subject.Kind,
			Entity:    &subject,
			Situation: q.Situation,
		})
		if err != nil {
			return fetchFailed("fetch game log totals", err)
		}
		snap.logs = mergeTotals(subject, totals)
		return nil
	})
	if withCredits && subject.Kind == entity.KindPlayer {
		p.Go(func(ctx context.Context) error {
			credits, err := s.credits.List(ctx, assist.Filter{Scope: resolved.Scope, Player: subject.Names[0]})
			if err != nil {
				return fetchFailed("fetch assist credits", err)
			}
			snap.credits = credits
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return snapshot{}, err
	}
	if subject.Kind.IsUnit() && !snap.logs.HasGames() {
		logs, err := s.unitMemberTotals(ctx, q, resolved, snap.events)
		if err != nil {
			return snapshot{}, err
		}
		snap.logs = logs
	}

	s.recorder.ObserveFetch(len(snap.events))
	return snap, nil
}

// unitMemberTotals stands in for a missing line or pairing row with the
// sum of the members' player logs.
func (s *StatsService) unitMemberTotals(ctx context.Context, q StatQuery, resolved window.Resolved, events []shot.Event) (gamelog.Total, error) {
	members, ok := unitMembers(q.Entity, events)
	if !ok {
		return gamelog.Total{Entity: q.Entity}, nil
	}

	parts := make([]gamelog.Total, 0, len(members))
	for _, name := range members {
		player := entity.Player(name)
		totals, err := s.logs.Totals(ctx, gamelog.Filter{
			Scope:     resolved.Scope,
			Kind:      entity.KindPlayer,
			Entity:    &player,
			Situation: q.Situation,
		})
		if err != nil {
			return gamelog.Total{}, fetchFailed("fetch member game log totals", err)
		}
		parts = append(parts, totals...)
	}
	return mergeTotals(q.Entity, parts), nil
}

// unitMembers resolves a unit's name fragments to the full names on the
// first side roster that holds all of them.
func unitMembers(e entity.Entity, events []shot.Event) ([]string, bool) {
	for _, ev := range events {
		for _, side := range []shot.Roster{ev.ShootingRoster, ev.OpposingRoster} {
			if !side.ContainsAll(e.Names) {
				continue
			}
			members := make([]string, 0, len(e.Names))
			for _, fragment := range e.Names {
				name, found := lo.Find(side, func(n string) bool {
					return shot.Roster{n}.ContainsFragment(fragment) && !lo.Contains(members, n)
				})
				if !found {
					break
				}
				members = append(members, name)
			}
			if len(members) == len(e.Names) {
				return members, true
			}
		}
	}
	return nil, false
}

func (s *StatsService) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

func (s *StatsService) observe(kinds []stat.Kind, status string, started time.Time) {
	for _, kind := range kinds {
		s.recorder.ObserveQuery(string(kind), status, time.Since(started))
	}
}

// eventFilter selects the subject's events. Trailing windows keep every
// event of the selected games.
func eventFilter(e entity.Entity, resolved window.Resolved) shot.Filter {
	filter := shot.Filter{Scope: resolved.Scope}
	if resolved.Window.Kind != window.KindTrailingGames {
		inv := e.Involvement()
		filter.Involving = &inv
	}
	return filter
}

func mergeTotals(e entity.Entity, totals []gamelog.Total) gamelog.Total {
	out := gamelog.Total{Entity: e}
	for _, t := range totals {
		out.Games += t.Games
		out.IcetimeSeconds += t.IcetimeSeconds
		out.Points += t.Points
		out.Hits += t.Hits
		out.Takeaways += t.Takeaways
		out.Giveaways += t.Giveaways
		out.BlockedShots += t.BlockedShots
		out.ShotsFaced += t.ShotsFaced
	}
	return out
}

func normalizeQuery(q StatQuery) StatQuery {
	if q.Situation == "" {
		q.Situation = situation.All
	}
	if q.SeasonType == "" {
		q.SeasonType = shot.SeasonTypeRegular
	}
	if q.Entity.Kind == entity.KindTeam {
		q.Entity.TeamCode = strings.ToUpper(strings.TrimSpace(q.Entity.TeamCode))
	}
	return q
}

// validateQuery rejects malformed queries before any store read.
func validateQuery(q StatQuery, kinds []stat.Kind, today time.Time) ([]stat.Definition, error) {
	if err := q.Entity.Validate(); err != nil {
		return nil, invalid(err)
	}
	if !q.SeasonType.Valid() {
		return nil, fmt.Errorf("%w: unknown season type %q", ErrInvalidInput, q.SeasonType)
	}
	if err := situation.Validate(q.Situation, q.Mode); err != nil {
		return nil, invalid(err)
	}
	if err := q.Window.Validate(today); err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: at least one statistic is required", ErrInvalidInput)
	}
	if q.Rank.Enabled && q.Window.Kind == window.KindTrailingGames {
		return nil, fmt.Errorf("%w: trailing game windows cannot be ranked", ErrInvalidInput)
	}
	if q.Rank.Qualification.MinIcetimeSeconds < 0 || q.Rank.Qualification.MinShotsFaced < 0 {
		return nil, fmt.Errorf("%w: qualification thresholds must be >= 0", ErrInvalidInput)
	}

	defs := make([]stat.Definition, 0, len(kinds))
	for _, kind := range kinds {
		def, ok := stat.Lookup(kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown statistic %q", ErrInvalidInput, kind)
		}
		if !def.Supports(q.Entity.Kind) {
			return nil, fmt.Errorf("%w: %s is not available for %s", ErrInvalidInput, kind, q.Entity.Kind)
		}
		if def.NeedsIcetime() && q.Situation == situation.EvenStrength && q.Mode == situation.AnyEqual {
			// Even strength game logs only cover 5-on-5 ice time.
			return nil, fmt.Errorf("%w: %s needs %s even strength", ErrInvalidInput, kind, situation.Strict5v5)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func needsCredits(defs []stat.Definition) bool {
	for _, def := range defs {
		if def.UsesCredits() {
			return true
		}
	}
	return false
}
