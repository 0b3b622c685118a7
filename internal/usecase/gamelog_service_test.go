package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/memory"
)

func TestGameLogService_List(t *testing.T) {
	t.Parallel()

	seed := memory.Seed()
	svc := NewGameLogService(memory.NewGameLogRepository(seed.Logs))
	id := seed.Events[0].NHLGameID

	tests := []struct {
		name      string
		ids       []int64
		kind      entity.Kind
		situation situation.Situation
		wantLen   int
		wantErr   error
	}{
		{name: "teams of one game", ids: []int64{id, id}, kind: entity.KindTeam, wantLen: 2},
		{name: "skaters default kind", ids: []int64{id}, situation: situation.PowerPlay, wantLen: 10},
		{name: "no ids", wantErr: ErrInvalidInput},
		{name: "unknown situation", ids: []int64{id}, situation: "penalty_shot", wantErr: ErrInvalidInput},
		{name: "unknown kind", ids: []int64{id}, kind: "coach", wantErr: ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logs, err := svc.List(t.Context(), tc.ids, tc.kind, tc.situation)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("list game logs: %v", err)
			}
			if len(logs) != tc.wantLen {
				t.Fatalf("unexpected log count: got=%d want=%d", len(logs), tc.wantLen)
			}
		})
	}
}
