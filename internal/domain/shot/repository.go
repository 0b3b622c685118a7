package shot

import "context"

// Repository is the read-only event store. Fetch always drops events that
// fail Eligible and orders the result by global game id then shot id.
type Repository interface {
	Fetch(ctx context.Context, filter Filter) ([]Event, error)
	// RecentGameIDs returns up to limit distinct global game ids involving inv, newest first.
	RecentGameIDs(ctx context.Context, inv Involvement, seasonType SeasonType, limit int) ([]int64, error)
	HasParticipant(ctx context.Context, inv Involvement) (bool, error)
	Seasons(ctx context.Context, inv Involvement, seasonType SeasonType) ([]int, error)
}
