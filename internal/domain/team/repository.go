package team

import "context"

// Repository describes team read needs from use cases.
type Repository interface {
	// ListTeamNames returns the teams that played in the given tournaments,
	// or every known team when tournaments is empty.
	ListTeamNames(ctx context.Context, tournaments []string) ([]string, error)
}
