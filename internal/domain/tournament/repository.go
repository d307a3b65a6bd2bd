package tournament

import "context"

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	GetByName(ctx context.Context, name string) (Tournament, bool, error)
	GetBySourcePage(ctx context.Context, page string) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	// Register creates the tournament or fills in region, split and source page
	// on an existing row with the same name.
	Register(ctx context.Context, item Tournament) (Tournament, error)
}
