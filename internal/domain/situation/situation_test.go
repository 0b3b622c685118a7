package situation

import (
	"testing"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

func TestClassifyIsTotalOverSkaterCounts(t *testing.T) {
	for _, mode := range []StrengthMode{Strict5v5, AnyEqual} {
		for own := shot.MinSkaters; own <= shot.MaxSkaters; own++ {
			for opp := shot.MinSkaters; opp <= shot.MaxSkaters; opp++ {
				got := Classify(own, opp, mode)
				var want Situation
				switch {
				case own > opp:
					want = PowerPlay
				case own < opp:
					want = Shorthanded
				case mode == AnyEqual || own == 5:
					want = EvenStrength
				default:
					want = Other
				}
				if got != want {
					t.Fatalf("classify(%d,%d,%s): got=%s want=%s", own, opp, mode, got, want)
				}
			}
		}
	}
}

func TestClassifyModes(t *testing.T) {
	tests := []struct {
		name string
		own  int
		opp  int
		mode StrengthMode
		want Situation
	}{
		{name: "5v5 strict", own: 5, opp: 5, mode: Strict5v5, want: EvenStrength},
		{name: "4v4 strict is other", own: 4, opp: 4, mode: Strict5v5, want: Other},
		{name: "4v4 any equal", own: 4, opp: 4, mode: AnyEqual, want: EvenStrength},
		{name: "3v3 any equal", own: 3, opp: 3, mode: AnyEqual, want: EvenStrength},
		{name: "5v3 power play", own: 5, opp: 3, mode: Strict5v5, want: PowerPlay},
		{name: "4v5 shorthanded", own: 4, opp: 5, mode: AnyEqual, want: Shorthanded},
		{name: "out of range", own: 7, opp: 5, mode: AnyEqual, want: Other},
		{name: "zero skaters", own: 0, opp: 0, mode: AnyEqual, want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.own, tt.opp, tt.mode); got != tt.want {
				t.Fatalf("unexpected situation: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestClassifyEventUsesPerspective(t *testing.T) {
	ev := shot.Event{HomeTeamCode: "TOR", AwayTeamCode: "MTL", HomeSkaters: 5, AwaySkaters: 4}

	if got := ClassifyEvent(ev, "TOR", Strict5v5); got != PowerPlay {
		t.Fatalf("home perspective: got=%s want=%s", got, PowerPlay)
	}
	if got := ClassifyEvent(ev, "mtl", Strict5v5); got != Shorthanded {
		t.Fatalf("away perspective: got=%s want=%s", got, Shorthanded)
	}
	if got := ClassifyEvent(ev, "BOS", Strict5v5); got != Other {
		t.Fatalf("outsider perspective: got=%s want=%s", got, Other)
	}
	if !Matches(All, ev, "BOS", "") {
		t.Fatalf("expected All to match regardless of perspective")
	}
}

func TestValidateRequiresModeForEvenStrength(t *testing.T) {
	if err := Validate(EvenStrength, ""); err == nil {
		t.Fatalf("expected error when even strength has no mode")
	}
	if err := Validate(Other, ""); err == nil {
		t.Fatalf("expected error when other has no mode")
	}
	if err := Validate(PowerPlay, ""); err != nil {
		t.Fatalf("power play should not need a mode: %v", err)
	}
	if err := Validate(Situation("five_on_five"), AnyEqual); err == nil {
		t.Fatalf("expected error for unknown situation")
	}
	if err := Validate(All, StrengthMode("loose")); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
