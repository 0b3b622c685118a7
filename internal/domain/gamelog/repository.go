package gamelog

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Log, error)
	Totals(ctx context.Context, filter Filter) ([]Total, error)
}
