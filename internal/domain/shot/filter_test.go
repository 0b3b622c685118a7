package shot

import (
	"testing"
	"time"
)

func TestScopeMatches(t *testing.T) {
	ev := Event{NHLGameID: 2024020100, Season: 2024, GameDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name  string
		scope Scope
		want  bool
	}{
		{name: "open scope", scope: Scope{}, want: true},
		{name: "season inside", scope: Scope{SeasonFrom: 2023, SeasonTo: 2024}, want: true},
		{name: "season outside", scope: Scope{SeasonFrom: 2022, SeasonTo: 2023}, want: false},
		{name: "date inside", scope: Scope{DateFrom: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}, want: true},
		{name: "date after end", scope: Scope{DateTo: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}, want: false},
		{name: "game restricted in", scope: Scope{RestrictGames: true, GameIDs: []int64{2024020100}}, want: true},
		{name: "game restricted out", scope: Scope{RestrictGames: true}, want: false},
		{name: "playoffs only", scope: Scope{SeasonType: SeasonTypePlayoffs}, want: false},
		{name: "regular only", scope: Scope{SeasonType: SeasonTypeRegular}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Matches(ev); got != tt.want {
				t.Fatalf("unexpected match: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestInvolvementMatches(t *testing.T) {
	ev := Event{
		HomeTeamCode:   "COL",
		AwayTeamCode:   "DAL",
		TeamCode:       "DAL",
		ShooterName:    "Jason Robertson",
		GoalieName:     "Alexandar Georgiev",
		ShootingRoster: Roster{"Jason Robertson", "Roope Hintz"},
		OpposingRoster: Roster{"Cale Makar", "Devon Toews"},
	}

	tests := []struct {
		name string
		inv  Involvement
		want bool
	}{
		{name: "empty", inv: Involvement{}, want: true},
		{name: "home team", inv: Involvement{TeamCode: "col"}, want: true},
		{name: "other team", inv: Involvement{TeamCode: "TOR"}, want: false},
		{name: "opposing pairing", inv: Involvement{Players: []string{"Toews", "Makar"}}, want: true},
		{name: "split across sides", inv: Involvement{Players: []string{"Makar", "Hintz"}}, want: false},
		{name: "goalie", inv: Involvement{Goalie: "alexandar georgiev"}, want: true},
		{name: "wrong goalie", inv: Involvement{Goalie: "Jake Oettinger"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.Matches(ev); got != tt.want {
				t.Fatalf("unexpected match: got=%v want=%v", got, tt.want)
			}
		})
	}
}
