package stage

import "context"

// Repository lists the stages present in stored matches.
type Repository interface {
	// ListStages returns distinct stages ordered by priority, then label.
	ListStages(ctx context.Context, tournaments []string) ([]Info, error)
}
