package window

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

var today = time.Date(2025, 4, 10, 15, 30, 0, 0, time.UTC)

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{name: "single season", window: Season(2022)},
		{name: "season range", window: SeasonRange(2019, 2024)},
		{name: "inverted season range", window: SeasonRange(2024, 2022), wantErr: true},
		{name: "season before league data", window: SeasonRange(0, 2022), wantErr: true},
		{name: "open ended date range", window: DateRange(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{})},
		{name: "date range ends before start", window: DateRange(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)), wantErr: true},
		{name: "date range starts after today", window: DateRange(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Time{}), wantErr: true},
		{name: "date range without start", window: DateRange(time.Time{}, today), wantErr: true},
		{name: "trailing games", window: TrailingGames(20)},
		{name: "zero trailing games", window: TrailingGames(0), wantErr: true},
		{name: "unknown kind", window: Window{Kind: "rolling"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate(today)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestWindowScope(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	scope := DateRange(start, time.Time{}).Scope(today, shot.SeasonTypeRegular)
	if !scope.DateFrom.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", scope.DateFrom)
	}
	if !scope.DateTo.Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end should default to today: %v", scope.DateTo)
	}
	if scope.SeasonType != shot.SeasonTypeRegular {
		t.Fatalf("unexpected season type: %s", scope.SeasonType)
	}

	seasons := SeasonRange(2022, 2023).Scope(today, shot.SeasonTypeAll)
	if seasons.SeasonFrom != 2022 || seasons.SeasonTo != 2023 {
		t.Fatalf("unexpected season bounds: %+v", seasons)
	}

	trailing := TrailingGames(5).Scope(today, shot.SeasonTypeAll)
	if !trailing.RestrictGames || len(trailing.GameIDs) != 0 {
		t.Fatalf("trailing scope should restrict to caller supplied games: %+v", trailing)
	}
}

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		day  string
		want int
	}{
		{day: "2024-10-08", want: 2024},
		{day: "2025-03-01", want: 2024},
		{day: "2025-08-31", want: 2024},
		{day: "2025-09-01", want: 2025},
	}
	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			day, err := time.Parse(time.DateOnly, tc.day)
			if err != nil {
				t.Fatalf("parse day: %v", err)
			}
			if got := SeasonOf(day); got != tc.want {
				t.Fatalf("SeasonOf(%s) = %d, want %d", tc.day, got, tc.want)
			}
		})
	}
}
