package ranking

import (
	"testing"
)

func TestPlaceHigherIsBetter(t *testing.T) {
	cohort := []float64{3, 10, 7, 1}

	got, ok := Place(cohort, 7, HigherIsBetter)
	if !ok {
		t.Fatalf("expected value to be placed")
	}
	if got.Percentile != 75 {
		t.Fatalf("unexpected percentile: got=%v want=75", got.Percentile)
	}
	if got.Rank != 2 {
		t.Fatalf("unexpected rank: got=%d want=2", got.Rank)
	}
	if got.CohortSize != 4 {
		t.Fatalf("unexpected cohort size: got=%d want=4", got.CohortSize)
	}
}

func TestPlaceLowerIsBetterInverts(t *testing.T) {
	cohort := []float64{3, 10, 7, 1}

	got, ok := Place(cohort, 1, LowerIsBetter)
	if !ok {
		t.Fatalf("expected value to be placed")
	}
	if got.Percentile != 75 {
		t.Fatalf("unexpected percentile: got=%v want=75", got.Percentile)
	}
	if got.Rank != 1 {
		t.Fatalf("unexpected rank: got=%d want=1", got.Rank)
	}
}

func TestPlaceTiesTakeFirstIndex(t *testing.T) {
	cohort := []float64{5, 5, 5, 9}

	got, ok := Place(cohort, 5, HigherIsBetter)
	if !ok {
		t.Fatalf("expected value to be placed")
	}
	if got.Percentile != 25 {
		t.Fatalf("tie should use first position: got=%v want=25", got.Percentile)
	}
	if got.Rank != 2 {
		t.Fatalf("ties share competition rank: got=%d want=2", got.Rank)
	}
}

func TestPlaceRoundsToOneDecimal(t *testing.T) {
	got, ok := Place([]float64{1, 2, 3}, 1, HigherIsBetter)
	if !ok {
		t.Fatalf("expected value to be placed")
	}
	if got.Percentile != 33.3 {
		t.Fatalf("unexpected percentile: got=%v want=33.3", got.Percentile)
	}
}

func TestPlaceIsMonotonic(t *testing.T) {
	cohort := []float64{0.42, 0.51, 0.51, 0.38, 0.60, 0.47, 0.55}
	for _, dir := range []Direction{HigherIsBetter, LowerIsBetter} {
		for _, a := range cohort {
			for _, b := range cohort {
				if a > b {
					continue
				}
				pa, _ := Place(cohort, a, dir)
				pb, _ := Place(cohort, b, dir)
				if dir == HigherIsBetter && pa.Percentile > pb.Percentile {
					t.Fatalf("percentile decreased with value: %v(%v) > %v(%v)", a, pa.Percentile, b, pb.Percentile)
				}
				if dir == LowerIsBetter && pa.Percentile < pb.Percentile {
					t.Fatalf("inverted percentile increased with value: %v(%v) < %v(%v)", a, pa.Percentile, b, pb.Percentile)
				}
				if pa.Rank < 1 || pa.Rank > len(cohort) {
					t.Fatalf("rank out of range: %d", pa.Rank)
				}
			}
		}
	}
}

func TestPlaceMissingValue(t *testing.T) {
	if _, ok := Place([]float64{1, 2}, 3, HigherIsBetter); ok {
		t.Fatalf("expected value outside cohort to be rejected")
	}
	if _, ok := Place(nil, 1, HigherIsBetter); ok {
		t.Fatalf("expected empty cohort to be rejected")
	}
}

func TestQualificationAdmits(t *testing.T) {
	q := Qualification{MinIcetimeSeconds: 9000}
	if q.Admits(8999, 0) {
		t.Fatalf("expected entity under threshold to be excluded")
	}
	if !q.Admits(9000, 0) {
		t.Fatalf("expected entity at threshold to qualify")
	}
	if (Qualification{}).IsZero() != true {
		t.Fatalf("expected empty qualification to be zero")
	}
	goalie := Qualification{MinShotsFaced: 500}
	if goalie.Admits(100000, 499) {
		t.Fatalf("expected goalie under shots faced threshold to be excluded")
	}
}
