package entity

import (
	"errors"
	"testing"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

func TestEntityValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr bool
	}{
		{name: "player", entity: Player("Auston Matthews")},
		{name: "team", entity: Team("TOR")},
		{name: "pairing", entity: Pairing("Makar", "Toews")},
		{name: "line", entity: Line("Marchand", "Bergeron", "Pastrnak")},
		{name: "goalie", entity: Goalie("Ilya Sorokin")},
		{name: "team without code", entity: Team(" "), wantErr: true},
		{name: "pairing with one name", entity: Entity{Kind: KindPairing, Names: []string{"Makar"}}, wantErr: true},
		{name: "line with duplicate", entity: Line("Marchand", "marchand", "Pastrnak"), wantErr: true},
		{name: "empty fragment", entity: Player("  "), wantErr: true},
		{name: "unknown kind", entity: Entity{Kind: "coach", Names: []string{"x"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntity) {
					t.Fatalf("expected ErrInvalidEntity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestEntityKeyIsOrderIndependent(t *testing.T) {
	a := Pairing("Makar", "Toews").Key()
	b := Pairing(" toews", "MAKAR").Key()
	if a != b {
		t.Fatalf("expected equal keys: %q != %q", a, b)
	}

	back, err := FromKey(a)
	if err != nil {
		t.Fatalf("from key: %v", err)
	}
	if back.Key() != a {
		t.Fatalf("unexpected round trip key: %q", back.Key())
	}
	if Team("tor").Key() != "team:TOR" {
		t.Fatalf("unexpected team key: %q", Team("tor").Key())
	}
}

func TestLocate(t *testing.T) {
	ev := shot.Event{
		TeamCode:       "COL",
		HomeTeamCode:   "COL",
		AwayTeamCode:   "DAL",
		ShooterName:    "Cale Makar",
		GoalieName:     "Jake Oettinger",
		ShootingRoster: shot.Roster{"Cale Makar", "Devon Toews"},
		OpposingRoster: shot.Roster{"Miro Heiskanen", "Esa Lindell"},
	}

	tests := []struct {
		name   string
		entity Entity
		mode   MatchMode
		want   Side
	}{
		{name: "shooter exact", entity: Player("cale makar"), mode: MatchShooter, want: SideFor},
		{name: "shooter fragment is not exact", entity: Player("Makar"), mode: MatchShooter, want: SideNone},
		{name: "pairing for", entity: Pairing("Toews", "Makar"), mode: MatchOnIce, want: SideFor},
		{name: "pairing against", entity: Pairing("Lindell", "Heiskanen"), mode: MatchOnIce, want: SideAgainst},
		{name: "pairing split", entity: Pairing("Makar", "Lindell"), mode: MatchOnIce, want: SideNone},
		{name: "team for", entity: Team("COL"), mode: MatchTeamFor, want: SideFor},
		{name: "team against", entity: Team("DAL"), mode: MatchTeamFor, want: SideAgainst},
		{name: "team game", entity: Team("DAL"), mode: MatchTeamGame, want: SideFor},
		{name: "team not playing", entity: Team("TOR"), mode: MatchTeamGame, want: SideNone},
		{name: "goalie", entity: Goalie("Jake Oettinger"), mode: MatchGoalie, want: SideAgainst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(ev, tt.entity, tt.mode); got != tt.want {
				t.Fatalf("unexpected side: got=%s want=%s", got, tt.want)
			}
		})
	}

	if got := Perspective(ev, Goalie("Jake Oettinger"), SideAgainst); got != "DAL" {
		t.Fatalf("unexpected goalie perspective: %s", got)
	}
	if got := Perspective(ev, Team("dal"), SideAgainst); got != "DAL" {
		t.Fatalf("unexpected team perspective: %s", got)
	}
}
