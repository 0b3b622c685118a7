package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxLength bounds ids accepted from callers.
const MaxLength = 128

// Generator creates request ids.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator issues random UUIDv4 values in their 32 character hex form.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ReplaceAll(u.String(), "-", ""), nil
}

// Valid reports whether a caller supplied id can be echoed back: non-empty,
// at most MaxLength bytes, and limited to letters, digits and "-_.:".
func Valid(v string) bool {
	if v == "" || len(v) > MaxLength {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
