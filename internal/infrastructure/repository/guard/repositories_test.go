package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	shotmock "github.com/riskibarqy/hockey-analytics/internal/mocks/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/platform/resilience"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/stretchr/testify/mock"
)

var errStoreDown = errors.New("connection refused")

func TestShotRepository_OpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	next := shotmock.NewRepository(t)
	next.On("Fetch", mock.Anything, mock.Anything).Return(nil, errStoreDown).Twice()

	breaker := NewBreaker(resilience.BreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		HalfOpenProbes:      1,
	}, nil, nil)
	repo := NewShotRepository(next, breaker)

	for i := range 2 {
		if _, err := repo.Fetch(context.Background(), shot.Filter{}); !errors.Is(err, errStoreDown) {
			t.Fatalf("call %d: expected store error, got %v", i, err)
		}
	}

	_, err := repo.Fetch(context.Background(), shot.Filter{})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected fast failure once open, got %v", err)
	}
}

func TestBreakerReportsStateChanges(t *testing.T) {
	t.Parallel()

	next := shotmock.NewRepository(t)
	next.On("Seasons", mock.Anything, mock.Anything, mock.Anything).Return(nil, errStoreDown).Once()

	var changes []string
	breaker := NewBreaker(resilience.BreakerConfig{Enabled: true, ConsecutiveFailures: 1}, nil, func(_, from, to string) {
		changes = append(changes, from+"->"+to)
	})
	repo := NewShotRepository(next, breaker)

	if _, err := repo.Seasons(context.Background(), shot.Involvement{TeamCode: "TOR"}, shot.SeasonTypeRegular); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(changes) != 1 || changes[0] != "closed->open" {
		t.Fatalf("unexpected state changes: %v", changes)
	}
}

func TestShotRepository_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	next := shotmock.NewRepository(t)
	next.On("HasParticipant", mock.Anything, mock.Anything).Return(false, context.Canceled).Times(3)
	next.On("HasParticipant", mock.Anything, mock.Anything).Return(true, nil).Once()

	breaker := NewBreaker(resilience.BreakerConfig{Enabled: true, ConsecutiveFailures: 1}, nil, nil)
	repo := NewShotRepository(next, breaker)

	for range 3 {
		if _, err := repo.HasParticipant(context.Background(), shot.Involvement{TeamCode: "TOR"}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	}
	found, err := repo.HasParticipant(context.Background(), shot.Involvement{TeamCode: "TOR"})
	if err != nil || !found {
		t.Fatalf("expected pass-through read, got %v %v", found, err)
	}
}

func TestNilBreakerPassesThrough(t *testing.T) {
	t.Parallel()

	next := shotmock.NewRepository(t)
	next.On("Seasons", mock.Anything, mock.Anything, shot.SeasonTypeAll).Return([]int{2024}, nil).Once()

	repo := NewShotRepository(next, NewBreaker(resilience.BreakerConfig{}, nil, nil))
	seasons, err := repo.Seasons(context.Background(), shot.Involvement{Goalie: "Joseph Woll"}, shot.SeasonTypeAll)
	if err != nil || len(seasons) != 1 {
		t.Fatalf("unexpected result: %v %v", seasons, err)
	}
}
