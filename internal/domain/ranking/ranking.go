package ranking

import (
	"math"
	"slices"
	"sort"
)

type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Qualification is the minimum activity an entity needs to enter a cohort.
type Qualification struct {
	MinIcetimeSeconds float64
	MinShotsFaced     int
}

func (q Qualification) IsZero() bool {
	return q.MinIcetimeSeconds <= 0 && q.MinShotsFaced <= 0
}

func (q Qualification) Admits(icetimeSeconds float64, shotsFaced int) bool {
	return icetimeSeconds >= q.MinIcetimeSeconds && shotsFaced >= q.MinShotsFaced
}

type Placement struct {
	Percentile float64
	Rank       int
	CohortSize int
}

// Place positions value inside cohort. The percentile uses the first index
// of value in the ascending cohort, so tied entities share the lowest
// position instead of an averaged one. Rank counts strictly better values.
// ok is false when value is not a cohort member.
func Place(cohort []float64, value float64, dir Direction) (Placement, bool) {
	sorted := make([]float64, 0, len(cohort))
	for _, v := range cohort {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 || math.IsNaN(value) {
		return Placement{}, false
	}
	slices.Sort(sorted)

	idx := sort.SearchFloat64s(sorted, value)
	if idx >= len(sorted) || sorted[idx] != value {
		return Placement{}, false
	}

	n := len(sorted)
	pct := Round(float64(idx+1)/float64(n)*100, 1)
	better := n - sort.Search(n, func(i int) bool { return sorted[i] > value })
	if dir == LowerIsBetter {
		pct = Round(100-pct, 1)
		better = idx
	}

	return Placement{Percentile: pct, Rank: better + 1, CohortSize: n}, true
}

func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
