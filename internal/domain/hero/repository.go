package hero

import "context"

type Repository interface {
	ListHeroNames(ctx context.Context) ([]string, error)
}
