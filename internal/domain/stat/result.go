package stat

import (
	"math"
	"strconv"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/ranking"
)

type Status string

const (
	StatusOK     Status = "ok"
	StatusNoData Status = "no_data"
)

type RankStatus string

const (
	RankNotRequested RankStatus = "not_requested"
	RankRanked       RankStatus = "ranked"
	RankNotRanked    RankStatus = "not_ranked"
)

// Result is one statistic for one entity, with its cohort placement when ranked.
type Result struct {
	Entity     entity.Entity
	Stat       Kind
	Family     Family
	Status     Status
	Value      float64
	Display    string
	Events     int
	Record     *Record
	RankStatus RankStatus
	Percentile float64
	Rank       int
	CohortSize int
	// GameIDs holds the games a trailing window resolved to, newest first.
	GameIDs []int64
}

func NewResult(e entity.Entity, kind Kind, v Value) Result {
	def, _ := Lookup(kind)
	res := Result{
		Entity:     e,
		Stat:       kind,
		Family:     def.Family,
		Status:     StatusOK,
		Events:     v.Events,
		Record:     v.Record,
		RankStatus: RankNotRequested,
	}
	if v.NoData {
		res.Status = StatusNoData
		return res
	}
	res.Value = v.Amount
	res.Display = Format(kind, v.Amount)
	if v.Record != nil {
		res.Display = v.Record.String()
	}
	return res
}

func (r *Result) Place(p ranking.Placement) {
	r.RankStatus = RankRanked
	r.Percentile = p.Percentile
	r.Rank = p.Rank
	r.CohortSize = p.CohortSize
}

func (r *Result) NotRanked() {
	r.RankStatus = RankNotRanked
	r.Percentile = 0
	r.Rank = 0
	r.CohortSize = 0
}

// FormatSavePercentage renders a save percentage as a three decimal
// fraction such as 0.916, never as a percent.
func FormatSavePercentage(v float64) string {
	return strconv.FormatFloat(ranking.Round(v, 3), 'f', 3, 64)
}

// Format renders v for display. Save percentage has a fixed format; other
// values drop trailing zeros.
func Format(kind Kind, v float64) string {
	if kind == SavePercentage {
		return FormatSavePercentage(v)
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(ranking.Round(v, 4), 'f', -1, 64)
}
