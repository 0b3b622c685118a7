package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnresolvedEntity      = errors.New("unresolved entity")
	ErrTimeout               = errors.New("query timed out")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// invalid tags a domain validation error as bad input.
func invalid(err error) error {
	if err == nil || errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, entity.ErrInvalidEntity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// fetchFailed wraps a store error, turning an expired deadline into ErrTimeout.
func fetchFailed(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
