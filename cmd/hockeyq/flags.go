package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

type subjectFlags struct {
	kind  string
	names []string
	team  string
}

func (f *subjectFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "kind", string(entity.KindPlayer), "entity kind: player, goalie, team, line or pairing")
	fs.StringArrayVar(&f.names, "name", nil, "player name fragment; repeat for lines and pairings")
	fs.StringVar(&f.team, "team", "", "team code for team entities")
}

func (f *subjectFlags) entity() entity.Entity {
	return entity.Entity{
		Kind:     entity.Kind(strings.ToLower(strings.TrimSpace(f.kind))),
		Names:    lo.Map(f.names, func(name string, _ int) string { return strings.TrimSpace(name) }),
		TeamCode: strings.ToUpper(strings.TrimSpace(f.team)),
	}
}

type windowFlags struct {
	seasons string
	from    string
	to      string
	last    int
}

func (f *windowFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.seasons, "seasons", "", "season or inclusive season range, e.g. 2022 or 2021-2023")
	fs.StringVar(&f.from, "from", "", "first game date (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "last game date (YYYY-MM-DD), defaults to today")
	fs.IntVar(&f.last, "last", 0, "trailing number of games")
}

// window picks trailing games over a date range over a season range.
func (f *windowFlags) window() (window.Window, error) {
	switch {
	case f.last != 0:
		return window.TrailingGames(f.last), nil
	case strings.TrimSpace(f.from) != "":
		from, err := parseDate("from", f.from)
		if err != nil {
			return window.Window{}, err
		}
		to, err := parseDate("to", f.to)
		if err != nil {
			return window.Window{}, err
		}
		return window.DateRange(from, to), nil
	case strings.TrimSpace(f.seasons) != "":
		lower, upper, err := parseSeasonRange(f.seasons)
		if err != nil {
			return window.Window{}, err
		}
		return window.SeasonRange(lower, upper), nil
	default:
		return window.Window{}, fmt.Errorf("%w: one of --seasons, --from or --last is required", window.ErrInvalidRange)
	}
}

type scopeFlags struct {
	situation  string
	mode       string
	seasonType string
}

func (f *scopeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.situation, "situation", string(situation.All), "all, even_strength, power_play, shorthanded or other")
	fs.StringVar(&f.mode, "mode", "", "even strength mode: strict_5v5 or any_equal")
	fs.StringVar(&f.seasonType, "season-type", string(shot.SeasonTypeRegular), "regular, playoffs or all")
}

func (f *scopeFlags) values() (situation.Situation, situation.StrengthMode, shot.SeasonType) {
	return situation.Situation(strings.TrimSpace(f.situation)),
		situation.StrengthMode(strings.TrimSpace(f.mode)),
		shot.SeasonType(strings.TrimSpace(f.seasonType))
}

type rankFlags struct {
	enabled       bool
	minIcetime    float64
	minShotsFaced int
}

func (f *rankFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.enabled, "rank", false, "place the entity within its cohort")
	fs.Float64Var(&f.minIcetime, "min-toi", 0, "cohort qualification: minimum icetime in seconds")
	fs.IntVar(&f.minShotsFaced, "min-shots-faced", 0, "cohort qualification: minimum shots faced for goalies")
}

func (f *rankFlags) request() usecase.RankRequest {
	return usecase.RankRequest{
		Enabled: f.enabled,
		Qualification: ranking.Qualification{
			MinIcetimeSeconds: f.minIcetime,
			MinShotsFaced:     f.minShotsFaced,
		},
	}
}

func statKinds(raw []string) []stat.Kind {
	kinds := lo.FilterMap(raw, func(v string, _ int) (stat.Kind, bool) {
		v = strings.ToLower(strings.TrimSpace(v))
		return stat.Kind(v), v != ""
	})
	return lo.Uniq(kinds)
}

func parseDate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must be YYYY-MM-DD", window.ErrInvalidRange, name)
	}
	return day, nil
}

func parseSeasonRange(raw string) (int, int, error) {
	lowerRaw, upperRaw, isRange := strings.Cut(strings.TrimSpace(raw), "-")
	lower, err := strconv.Atoi(strings.TrimSpace(lowerRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid season %q", window.ErrInvalidRange, lowerRaw)
	}
	if !isRange {
		return lower, lower, nil
	}
	upper, err := strconv.Atoi(strings.TrimSpace(upperRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid season %q", window.ErrInvalidRange, upperRaw)
	}
	return lower, upper, nil
}

// parseSeasonList accepts a comma separated list where each item is a
// season or a season range.
func parseSeasonList(raw string) ([]int, error) {
	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		lower, upper, err := parseSeasonRange(part)
		if err != nil {
			return nil, err
		}
		if lower > upper {
			return nil, fmt.Errorf("%w: season %d is after %d", window.ErrInvalidRange, lower, upper)
		}
		seasons = append(seasons, lo.RangeFrom(lower, upper-lower+1)...)
	}
	return seasons, nil
}
