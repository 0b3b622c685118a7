package postgres

import (
	"database/sql"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
)

func isNotFound(err error) bool {
	return crerr.Is(err, sql.ErrNoRows)
}

// likePatterns turns name fragments into case-insensitive substring patterns.
func likePatterns(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		needle := shot.NormalizeName(fragment)
		if needle == "" {
			continue
		}
		needle = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(needle)
		out = append(out, "%"+needle+"%")
	}
	return out
}
