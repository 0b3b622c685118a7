package shot

import "strings"

// Roster is the list of skater names on ice for one side of an event.
type Roster []string

// ParseRoster splits the comma separated roster text used by the source feed.
func ParseRoster(raw string) Roster {
	parts := strings.Split(raw, ",")
	out := make(Roster, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (r Roster) String() string {
	return strings.Join(r, ", ")
}

// ContainsFragment reports whether any name contains fragment, ignoring case.
func (r Roster) ContainsFragment(fragment string) bool {
	needle := NormalizeName(fragment)
	if needle == "" {
		return false
	}
	for _, name := range r {
		if strings.Contains(NormalizeName(name), needle) {
			return true
		}
	}
	return false
}

// ContainsAll checks every fragment on its own; order does not matter.
func (r Roster) ContainsAll(fragments []string) bool {
	if len(fragments) == 0 {
		return false
	}
	for _, fragment := range fragments {
		if !r.ContainsFragment(fragment) {
			return false
		}
	}
	return true
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
