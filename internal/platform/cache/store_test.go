package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLoad = errors.New("event store unavailable")

type clock struct{ now time.Time }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(ttl time.Duration, max int, opts ...Option) (*Store, *clock) {
	c := &clock{now: time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, max, opts...)
	s.now = func() time.Time { return c.now }
	return s, c
}

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 0)
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return []int{2022, 2023}, nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "shot:seasons|TOR", loader)
			if err == nil {
				results[i] = v
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for i, v := range results {
		assert.Equal(t, []int{2022, 2023}, v, "worker %d", i)
	}
}

func TestStore_GetOrLoad_ReloadsAfterSharedCancellation(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 0)
	var calls atomic.Int32
	started := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return "fresh", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(leaderCtx, "shot:fetch", loader)
		leaderErr <- err
	}()
	<-started

	type result struct {
		value any
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "shot:fetch", loader)
		follower <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	require.ErrorIs(t, <-leaderErr, context.Canceled)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "fresh", got.value)
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store, clk := newTestStore(time.Minute, 0)
	store.Set(context.Background(), "shot:seasons", []int{2024})

	_, ok := store.Get(context.Background(), "shot:seasons")
	require.True(t, ok)

	clk.advance(time.Minute)
	_, ok = store.Get(context.Background(), "shot:seasons")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_EvictsOldestInsert(t *testing.T) {
	t.Parallel()

	var evictions int
	store, _ := newTestStore(time.Minute, 2, WithObserver(func(outcome string) {
		if outcome == Evict {
			evictions++
		}
	}))

	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)
	store.Set(context.Background(), "a", 10)
	store.Set(context.Background(), "c", 3)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 1, evictions)
	_, ok := store.Get(context.Background(), "b")
	assert.False(t, ok, "b was inserted before the rewrite of a")
	v, ok := store.Get(context.Background(), "a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestStore_ObservesHitsAndMisses(t *testing.T) {
	t.Parallel()

	var outcomes []string
	store, _ := newTestStore(0, 0, WithObserver(func(outcome string) {
		outcomes = append(outcomes, outcome)
	}))

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	assert.Equal(t, []string{Miss, Hit}, outcomes)
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 0)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errLoad
		}
		return "ok", nil
	}

	_, err := store.GetOrLoad(context.Background(), "k", loader)
	require.ErrorIs(t, err, errLoad)

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestStore_EmptyKeyBypassesCache(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 0)
	var calls atomic.Int32
	for range 2 {
		_, err := store.GetOrLoad(context.Background(), "", func(context.Context) (any, error) {
			calls.Add(1)
			return nil, nil
		})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, calls.Load())
	assert.Zero(t, store.Len())

	_, err := store.GetOrLoad(context.Background(), "k", nil)
	assert.Error(t, err)
}
