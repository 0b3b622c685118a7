package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("connection refused")

func fail() (any, error) { return nil, errStore }

func TestNewCircuitBreaker_Disabled(t *testing.T) {
	assert.Nil(t, NewCircuitBreaker("event-store", BreakerConfig{}, nil))
}

func TestNewCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	var transitions []string
	b := NewCircuitBreaker("event-store", BreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 2,
		OpenTimeout:         20 * time.Millisecond,
		HalfOpenProbes:      1,
	}, func(name, from, to string) {
		transitions = append(transitions, name+":"+from+"->"+to)
	})
	require.NotNil(t, b)

	_, err := b.Execute(fail)
	require.ErrorIs(t, err, errStore)
	assert.Equal(t, gobreaker.StateClosed, b.State())

	_, err = b.Execute(fail)
	require.ErrorIs(t, err, errStore)
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err = b.Execute(func() (any, error) { return "unreached", nil })
	assert.True(t, Rejected(err))

	time.Sleep(30 * time.Millisecond)
	out, err := b.Execute(func() (any, error) { return "probe", nil })
	require.NoError(t, err)
	assert.Equal(t, "probe", out)
	assert.Equal(t, gobreaker.StateClosed, b.State())

	assert.Equal(t, []string{
		"event-store:closed->open",
		"event-store:open->half-open",
		"event-store:half-open->closed",
	}, transitions)
}

func TestNewCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	b := NewCircuitBreaker("event-store", BreakerConfig{Enabled: true, ConsecutiveFailures: 1}, nil)

	for range 3 {
		_, err := b.Execute(func() (any, error) { return nil, context.Canceled })
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerConfigDefaults(t *testing.T) {
	st := BreakerConfig{Enabled: true, OpenTimeout: time.Minute}.settings("event-store", nil)

	assert.Equal(t, time.Minute, st.Timeout)
	assert.Equal(t, uint32(defaultHalfOpenProbes), st.MaxRequests)
	assert.False(t, st.ReadyToTrip(gobreaker.Counts{ConsecutiveFailures: defaultConsecutiveFailures - 1}))
	assert.True(t, st.ReadyToTrip(gobreaker.Counts{ConsecutiveFailures: defaultConsecutiveFailures}))
}

func TestRejected(t *testing.T) {
	assert.True(t, Rejected(gobreaker.ErrOpenState))
	assert.True(t, Rejected(gobreaker.ErrTooManyRequests))
	assert.False(t, Rejected(errStore))
	assert.False(t, Rejected(nil))
}
