package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"go.opentelemetry.io/otel/attribute"
)

const maxGameLogIDs = 200

type GameLogService struct {
	logs gamelog.Repository
}

func NewGameLogService(logs gamelog.Repository) *GameLogService {
	return &GameLogService{logs: logs}
}

// List returns the game logs of kind for the given global game ids.
func (s *GameLogService) List(ctx context.Context, ids []int64, kind entity.Kind, sit situation.Situation) ([]gamelog.Log, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameLogService.List", attribute.Int("hockey.game_ids", len(ids)), attribute.String("hockey.entity.kind", string(kind)))
	defer span.End()

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one game id is required", ErrInvalidInput)
	}
	if len(ids) > maxGameLogIDs {
		return nil, fmt.Errorf("%w: at most %d game ids per request", ErrInvalidInput, maxGameLogIDs)
	}
	if kind == "" {
		kind = entity.KindPlayer
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
	}
	if sit == "" {
		sit = situation.All
	}
	if !sit.Valid() {
		return nil, fmt.Errorf("%w: unknown situation %q", ErrInvalidInput, sit)
	}

	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	logs, err := s.logs.List(ctx, gamelog.Filter{
		Scope:     shot.Scope{GameIDs: ids, RestrictGames: true},
		Kind:      kind,
		Situation: sit,
	})
	if err != nil {
		return nil, fetchFailed("list game logs", err)
	}
	return logs, nil
}
