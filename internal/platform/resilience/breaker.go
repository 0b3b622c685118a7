package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	defaultConsecutiveFailures = 5
	defaultOpenTimeout         = 15 * time.Second
	defaultHalfOpenProbes      = 2
)

// BreakerConfig trips a breaker after ConsecutiveFailures failed calls,
// keeps it open for OpenTimeout and then admits HalfOpenProbes trial calls.
// Unset values take the package defaults.
type BreakerConfig struct {
	Enabled             bool
	ConsecutiveFailures int
	OpenTimeout         time.Duration
	HalfOpenProbes      int
}

// StateChangeFunc observes breaker transitions using gobreaker's state names
// ("closed", "half-open", "open").
type StateChangeFunc func(name, from, to string)

func (c BreakerConfig) settings(name string, onChange StateChangeFunc) gobreaker.Settings {
	failures := uint32(defaultConsecutiveFailures)
	if c.ConsecutiveFailures > 0 {
		failures = uint32(c.ConsecutiveFailures)
	}
	probes := uint32(defaultHalfOpenProbes)
	if c.HalfOpenProbes > 0 {
		probes = uint32(c.HalfOpenProbes)
	}
	timeout := c.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: probes,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Cancelled calls neither trip nor reset the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if onChange != nil {
				onChange(name, from.String(), to.String())
			}
		},
	}
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(name string, cfg BreakerConfig, onChange StateChangeFunc) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return gobreaker.NewCircuitBreaker(cfg.settings(name, onChange))
}

// Rejected reports whether err came from the breaker refusing a call rather
// than from the protected dependency.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || errors.Is(err, ErrCircuitOpen)
}
