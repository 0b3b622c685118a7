package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	shotmock "github.com/riskibarqy/hockey-analytics/internal/mocks/domain/shot"
	basecache "github.com/riskibarqy/hockey-analytics/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShotRepository_Fetch_LoadsOnceAndCopiesOnRead(t *testing.T) {
	t.Parallel()

	filter := shot.Filter{
		Scope:     shot.Scope{SeasonFrom: 2024, SeasonTo: 2024, SeasonType: shot.SeasonTypeRegular},
		Involving: &shot.Involvement{Players: []string{"Makar", "Toews"}},
	}
	events := []shot.Event{{
		ShotID:         1,
		NHLGameID:      2024020001,
		ShooterName:    "Cale Makar",
		ShootingRoster: shot.Roster{"Cale Makar", "Devon Toews"},
	}}

	next := shotmock.NewRepository(t)
	next.On("Fetch", mock.Anything, filter).Return(events, nil).Once()

	repo := NewShotRepository(next, basecache.NewStore(time.Minute, 0))

	first, err := repo.Fetch(context.Background(), filter)
	require.NoError(t, err)
	first[0].ShootingRoster[0] = "mutated"

	second, err := repo.Fetch(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, "Cale Makar", second[0].ShootingRoster[0])
}

func TestShotRepository_Seasons_KeysByArguments(t *testing.T) {
	t.Parallel()

	inv := shot.Involvement{Players: []string{"Auston Matthews"}}
	next := shotmock.NewRepository(t)
	next.On("Seasons", mock.Anything, inv, shot.SeasonTypeRegular).Return([]int{2022, 2023}, nil).Once()
	next.On("Seasons", mock.Anything, inv, shot.SeasonTypePlayoffs).Return([]int{2023}, nil).Once()

	repo := NewShotRepository(next, basecache.NewStore(time.Minute, 0))
	for range 2 {
		regular, err := repo.Seasons(context.Background(), inv, shot.SeasonTypeRegular)
		require.NoError(t, err)
		assert.Equal(t, []int{2022, 2023}, regular)

		playoffs, err := repo.Seasons(context.Background(), inv, shot.SeasonTypePlayoffs)
		require.NoError(t, err)
		assert.Equal(t, []int{2023}, playoffs)
	}
}

func TestKey_DistinguishesFilters(t *testing.T) {
	t.Parallel()

	a := key("shot:fetch", shot.Filter{Scope: shot.Scope{SeasonFrom: 2023}})
	b := key("shot:fetch", shot.Filter{Scope: shot.Scope{SeasonFrom: 2024}})
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, key("shot:fetch", shot.Filter{Scope: shot.Scope{SeasonFrom: 2023}}))
}
