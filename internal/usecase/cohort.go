package usecase

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// leagueSnapshot is every event, game log total and credit in a window,
// shared by all statistics ranked in one query.
type leagueSnapshot struct {
	events  []shot.Event
	totals  []gamelog.Total
	players map[string]gamelog.Total
	credits map[string][]assist.Credit
	goals   map[stat.GoalRef]shot.Event
	mu      sync.Mutex
	indexes map[entity.MatchMode]*cohortIndex
}

func (s *StatsService) cohortSnapshot(ctx context.Context, q StatQuery, resolved window.Resolved, withCredits bool) (*leagueSnapshot, error) {
	league := &leagueSnapshot{indexes: make(map[entity.MatchMode]*cohortIndex)}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		events, err := s.shots.Fetch(ctx, shot.Filter{Scope: resolved.Scope})
		if err != nil {
			return fetchFailed("fetch cohort events", err)
		}
		league.events = events
		return nil
	})
	p.Go(func(ctx context.Context) error {
		totals, err := s.logs.Totals(ctx, gamelog.Filter{Scope: resolved.Scope, Kind: q.Entity.Kind, Situation: q.Situation})
		if err != nil {
			return fetchFailed("fetch cohort game logs", err)
		}
		league.totals = totals
		return nil
	})
	if q.Entity.Kind.IsUnit() {
		p.Go(func(ctx context.Context) error {
			totals, err := s.logs.Totals(ctx, gamelog.Filter{Scope: resolved.Scope, Kind: entity.KindPlayer, Situation: q.Situation})
			if err != nil {
				return fetchFailed("fetch cohort member game logs", err)
			}
			league.players = lo.KeyBy(totals, func(t gamelog.Total) string {
				return shot.NormalizeName(t.Entity.Names[0])
			})
			return nil
		})
	}
	if withCredits {
		p.Go(func(ctx context.Context) error {
			credits, err := s.credits.List(ctx, assist.Filter{Scope: resolved.Scope})
			if err != nil {
				return fetchFailed("fetch cohort assist credits", err)
			}
			league.credits = lo.GroupBy(credits, func(c assist.Credit) string {
				return shot.NormalizeName(c.PlayerName)
			})
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	s.recorder.ObserveFetch(len(league.events))
	league.goals = stat.IndexGoals(league.events)
	return league, nil
}

func (l *leagueSnapshot) index(mode entity.MatchMode) *cohortIndex {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.indexes[mode]
	if !ok {
		idx = newCohortIndex(l.events, mode)
		l.indexes[mode] = idx
	}
	return idx
}

type candidate struct {
	entity entity.Entity
	totals gamelog.Total
}

// place ranks value against every qualifying cohort member other than the
// subject itself, then adds the subject.
func (s *StatsService) place(ctx context.Context, q StatQuery, def stat.Definition, value float64, league *leagueSnapshot) (ranking.Placement, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.place")
	defer span.End()

	mode := def.Match[q.Entity.Kind]
	idx := league.index(mode)

	members := make([]candidate, 0)
	for _, c := range cohortCandidates(q.Entity.Kind, league.totals, league.players, idx) {
		if sameSubject(c.entity, q.Entity) {
			continue
		}
		if !q.Rank.Qualification.Admits(c.totals.IcetimeSeconds, c.totals.ShotsFaced) {
			continue
		}
		members = append(members, c)
	}

	values, err := s.cohortValues(ctx, q, def, members, league, idx)
	if err != nil {
		return ranking.Placement{}, false, err
	}
	values = append(values, value)

	placement, ok := ranking.Place(values, value, def.Direction)
	return placement, ok, nil
}

func (s *StatsService) cohortValues(ctx context.Context, q StatQuery, def stat.Definition, members []candidate, league *leagueSnapshot, idx *cohortIndex) ([]float64, error) {
	workerCount := s.cfg.RankWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	values := make([]float64, len(members))
	present := make([]bool, len(members))

	var workers sync.WaitGroup
	for i, member := range members {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}

			var credits []assist.Credit
			if member.entity.Kind == entity.KindPlayer {
				credits = league.credits[shot.NormalizeName(member.entity.Names[0])]
			}
			v, err := stat.Aggregate(def.Kind, stat.Input{
				Entity:    member.entity,
				Situation: q.Situation,
				Mode:      q.Mode,
				Events:    idx.eventsFor(member.entity),
				Logs:      member.totals,
				Credits:   credits,
				Goals:     league.goals,
			})
			if err != nil || v.NoData {
				return
			}
			values[i] = v.Amount
			present[i] = true
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fetchFailed("rank cohort", err)
	}

	out := make([]float64, 0, len(values))
	for i, v := range values {
		if present[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// cohortCandidates lists every entity of kind seen in the window: those
// with game logs plus those seen on events. A line or pairing without a
// unit row of its own carries the sum of its members' player logs.
func cohortCandidates(kind entity.Kind, totals []gamelog.Total, players map[string]gamelog.Total, idx *cohortIndex) []candidate {
	byKey := make(map[string]candidate)
	for _, t := range totals {
		if t.Entity.Kind != kind {
			continue
		}
		key := t.Entity.Key()
		existing, ok := byKey[key]
		if ok {
			t = mergeTotals(existing.entity, []gamelog.Total{existing.totals, t})
		}
		byKey[key] = candidate{entity: t.Entity, totals: t}
	}

	if kind.IsUnit() {
		for _, e := range rosterUnits(kind, idx.events) {
			key := e.Key()
			if _, ok := byKey[key]; !ok {
				byKey[key] = candidate{entity: e, totals: memberTotals(e, players)}
			}
		}
	} else {
		for _, name := range idx.names() {
			var e entity.Entity
			switch kind {
			case entity.KindTeam:
				e = entity.Team(name)
			case entity.KindGoalie:
				e = entity.Goalie(name)
			default:
				e = entity.Player(name)
			}
			key := e.Key()
			if _, ok := byKey[key]; !ok {
				byKey[key] = candidate{entity: e, totals: gamelog.Total{Entity: e}}
			}
		}
	}

	keys := lo.Keys(byKey)
	slices.Sort(keys)
	out := make([]candidate, 0, len(keys))
	for _, key := range keys {
		out = append(out, byKey[key])
	}
	return out
}

// sameSubject reports whether cohort member c is the queried subject.
// Subjects may be name fragments, so a member matches when its names hold
// every subject fragment.
func sameSubject(c, subject entity.Entity) bool {
	if c.Kind != subject.Kind {
		return false
	}
	switch c.Kind {
	case entity.KindTeam:
		return strings.EqualFold(c.TeamCode, subject.TeamCode)
	case entity.KindPlayer, entity.KindGoalie:
		return shot.Roster{c.Names[0]}.ContainsFragment(subject.Names[0])
	default:
		return len(c.Names) == len(subject.Names) && shot.Roster(c.Names).ContainsAll(subject.Names)
	}
}

// rosterUnits lists every distinct combination of kind's size seen together
// on one side of an event.
func rosterUnits(kind entity.Kind, events []shot.Event) []entity.Entity {
	size := kind.Size()
	seen := make(map[string]struct{})
	out := make([]entity.Entity, 0)
	for _, ev := range events {
		for _, side := range []shot.Roster{ev.ShootingRoster, ev.OpposingRoster} {
			names := lo.UniqBy(side, shot.NormalizeName)
			combinations(names, size, func(combo []string) {
				e := entity.Entity{Kind: kind, Names: slices.Clone(combo)}
				key := e.Key()
				if _, ok := seen[key]; ok {
					return
				}
				seen[key] = struct{}{}
				out = append(out, e)
			})
		}
	}
	return out
}

// combinations calls visit with every size-element subset of names, in
// input order. visit must not retain combo.
func combinations(names []string, size int, visit func(combo []string)) {
	if size <= 0 || len(names) < size {
		return
	}
	combo := make([]string, 0, size)
	var walk func(start int)
	walk = func(start int) {
		if len(combo) == size {
			visit(combo)
			return
		}
		for i := start; i <= len(names)-(size-len(combo)); i++ {
			combo = append(combo, names[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
}

// memberTotals sums the player totals of e's members, keyed by normalized
// full name.
func memberTotals(e entity.Entity, players map[string]gamelog.Total) gamelog.Total {
	parts := make([]gamelog.Total, 0, len(e.Names))
	for _, name := range e.Names {
		if t, ok := players[shot.NormalizeName(name)]; ok {
			parts = append(parts, t)
		}
	}
	return mergeTotals(e, parts)
}

// cohortIndex maps identities to the positions of the events they appear in
// so each cohort member aggregates over its own events only.
type cohortIndex struct {
	events  []shot.Event
	mode    entity.MatchMode
	byName  map[string][]int
	display map[string]string
}

func newCohortIndex(events []shot.Event, mode entity.MatchMode) *cohortIndex {
	idx := &cohortIndex{
		events:  events,
		mode:    mode,
		byName:  make(map[string][]int),
		display: make(map[string]string),
	}
	for i, ev := range events {
		switch mode {
		case entity.MatchShooter:
			idx.add(ev.ShooterName, i)
		case entity.MatchGoalie:
			idx.add(ev.GoalieName, i)
		case entity.MatchOnIce:
			names := lo.Uniq(append(slices.Clone(ev.ShootingRoster), ev.OpposingRoster...))
			for _, name := range names {
				idx.add(name, i)
			}
		case entity.MatchTeamFor, entity.MatchTeamGame:
			idx.add(strings.ToUpper(ev.HomeTeamCode), i)
			idx.add(strings.ToUpper(ev.AwayTeamCode), i)
		}
	}
	return idx
}

func (x *cohortIndex) add(name string, pos int) {
	key := shot.NormalizeName(name)
	if key == "" {
		return
	}
	positions := x.byName[key]
	if n := len(positions); n > 0 && positions[n-1] == pos {
		return
	}
	if _, ok := x.display[key]; !ok {
		x.display[key] = strings.TrimSpace(name)
	}
	x.byName[key] = append(positions, pos)
}

func (x *cohortIndex) names() []string {
	return lo.Values(x.display)
}

func (x *cohortIndex) eventsFor(e entity.Entity) []shot.Event {
	keys := e.Names
	if e.Kind == entity.KindTeam {
		keys = []string{e.TeamCode}
	}

	var positions []int
	for i, key := range keys {
		found := x.byName[shot.NormalizeName(key)]
		if i == 0 {
			positions = found
			continue
		}
		positions = lo.Intersect(positions, found)
	}

	out := make([]shot.Event, 0, len(positions))
	for _, pos := range positions {
		out = append(out, x.events[pos])
	}
	return out
}
