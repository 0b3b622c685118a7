package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

var ErrInvalidEntity = errors.New("invalid entity")

type Kind string

const (
	KindPlayer  Kind = "player"
	KindGoalie  Kind = "goalie"
	KindTeam    Kind = "team"
	KindLine    Kind = "line"
	KindPairing Kind = "pairing"
)

// Size is how many names an entity of kind k carries.
func (k Kind) Size() int {
	switch k {
	case KindPlayer, KindGoalie:
		return 1
	case KindPairing:
		return 2
	case KindLine:
		return 3
	default:
		return 0
	}
}

func (k Kind) Valid() bool {
	return k == KindTeam || k.Size() > 0
}

// IsUnit reports whether k groups several skaters.
func (k Kind) IsUnit() bool {
	return k == KindLine || k == KindPairing
}

// Entity is a query subject identified by name fragments or a team code.
type Entity struct {
	Kind     Kind
	Names    []string
	TeamCode string
}

func Player(name string) Entity {
	return Entity{Kind: KindPlayer, Names: []string{name}}
}

func Goalie(name string) Entity {
	return Entity{Kind: KindGoalie, Names: []string{name}}
}

func Team(code string) Entity {
	return Entity{Kind: KindTeam, TeamCode: code}
}

func Line(first, second, third string) Entity {
	return Entity{Kind: KindLine, Names: []string{first, second, third}}
}

func Pairing(first, second string) Entity {
	return Entity{Kind: KindPairing, Names: []string{first, second}}
}

func (e Entity) Validate() error {
	if e.Kind == KindTeam {
		if strings.TrimSpace(e.TeamCode) == "" {
			return fmt.Errorf("%w: team code is required", ErrInvalidEntity)
		}
		if len(e.Names) > 0 {
			return fmt.Errorf("%w: team entity takes no names", ErrInvalidEntity)
		}
		return nil
	}

	size := e.Kind.Size()
	if size == 0 {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntity, e.Kind)
	}
	if len(e.Names) != size {
		return fmt.Errorf("%w: %s needs %d names, got %d", ErrInvalidEntity, e.Kind, size, len(e.Names))
	}

	seen := make(map[string]struct{}, size)
	for _, name := range e.Names {
		key := shot.NormalizeName(name)
		if key == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidEntity)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidEntity, name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Key identifies the entity regardless of the order its names were given in.
func (e Entity) Key() string {
	if e.Kind == KindTeam {
		return string(KindTeam) + ":" + strings.ToUpper(strings.TrimSpace(e.TeamCode))
	}
	names := make([]string, 0, len(e.Names))
	for _, name := range e.Names {
		names = append(names, shot.NormalizeName(name))
	}
	slices.Sort(names)
	return string(e.Kind) + ":" + strings.Join(names, "|")
}

func (e Entity) Label() string {
	if e.Kind == KindTeam {
		return strings.ToUpper(strings.TrimSpace(e.TeamCode))
	}
	return strings.Join(e.Names, " / ")
}

// Involvement is the store-level predicate selecting events the entity took part in.
func (e Entity) Involvement() shot.Involvement {
	switch e.Kind {
	case KindTeam:
		return shot.Involvement{TeamCode: strings.ToUpper(strings.TrimSpace(e.TeamCode))}
	case KindGoalie:
		return shot.Involvement{Goalie: e.Names[0]}
	default:
		return shot.Involvement{Players: slices.Clone(e.Names)}
	}
}

// FromKey rebuilds an entity from Key output.
func FromKey(key string) (Entity, error) {
	kind, rest, ok := strings.Cut(key, ":")
	if !ok || rest == "" {
		return Entity{}, fmt.Errorf("%w: malformed key %q", ErrInvalidEntity, key)
	}
	e := Entity{Kind: Kind(kind)}
	if e.Kind == KindTeam {
		e.TeamCode = rest
	} else {
		e.Names = strings.Split(rest, "|")
	}
	if err := e.Validate(); err != nil {
		return Entity{}, err
	}
	return e, nil
}
