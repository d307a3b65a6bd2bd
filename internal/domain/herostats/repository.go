package herostats

import "context"

// Repository aggregates stored hero actions. Only matches with a winner are
// part of the population.
type Repository interface {
	GetTotals(ctx context.Context, filter Filter) (Totals, error)
	ListHeroCounts(ctx context.Context, filter Filter) ([]HeroCounts, error)
	ListTeamPerformance(ctx context.Context, heroName string, filter Filter) ([]TeamPerformance, error)
	ListOpponentMatchups(ctx context.Context, heroName string, filter Filter) ([]OpponentMatchup, error)
}
