package situation

import (
	"fmt"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

type Situation string

const (
	All          Situation = "all"
	EvenStrength Situation = "even_strength"
	PowerPlay    Situation = "power_play"
	Shorthanded  Situation = "shorthanded"
	Other        Situation = "other"
)

func (s Situation) Valid() bool {
	switch s {
	case All, EvenStrength, PowerPlay, Shorthanded, Other:
		return true
	default:
		return false
	}
}

// NeedsMode reports whether the even strength definition changes what s selects.
func (s Situation) NeedsMode() bool {
	return s == EvenStrength || s == Other
}

// StrengthMode picks which equal-strength states count as even strength.
type StrengthMode string

const (
	// Strict5v5 treats only 5-on-5 as even strength.
	Strict5v5 StrengthMode = "strict_5v5"
	// AnyEqual treats 4-on-4, 3-on-3 and every other equal state as even strength.
	AnyEqual StrengthMode = "any_equal"
)

func (m StrengthMode) Valid() bool {
	return m == Strict5v5 || m == AnyEqual
}

// Classify labels a strength state from one team's perspective. It never
// fails; counts outside the rink's range are Other.
func Classify(own, opp int, mode StrengthMode) Situation {
	if !inRange(own) || !inRange(opp) {
		return Other
	}
	switch {
	case own > opp:
		return PowerPlay
	case own < opp:
		return Shorthanded
	case mode == Strict5v5 && own != 5:
		return Other
	default:
		return EvenStrength
	}
}

// ClassifyEvent classifies ev from perspectiveTeam's bench. A team that did
// not play in the game gets Other.
func ClassifyEvent(ev shot.Event, perspectiveTeam string, mode StrengthMode) Situation {
	own, opp, ok := ev.Skaters(perspectiveTeam)
	if !ok {
		return Other
	}
	return Classify(own, opp, mode)
}

// Matches reports whether ev falls under want for perspectiveTeam. All
// skips classification.
func Matches(want Situation, ev shot.Event, perspectiveTeam string, mode StrengthMode) bool {
	if want == All {
		return true
	}
	return ClassifyEvent(ev, perspectiveTeam, mode) == want
}

// Validate checks that s is known and that a mode is given where one is needed.
func Validate(s Situation, mode StrengthMode) error {
	if !s.Valid() {
		return fmt.Errorf("unknown situation %q", s)
	}
	if mode != "" && !mode.Valid() {
		return fmt.Errorf("unknown strength mode %q", mode)
	}
	if s.NeedsMode() && mode == "" {
		return fmt.Errorf("situation %q requires a strength mode", s)
	}
	return nil
}

func inRange(n int) bool {
	return n >= shot.MinSkaters && n <= shot.MaxSkaters
}
