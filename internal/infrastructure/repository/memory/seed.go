package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

// DefaultRegistry is the tournament list used by the memory driver when no
// tournaments file is configured.
func DefaultRegistry() []tournament.RegistryEntry {
	return []tournament.RegistryEntry{
		{LiquipediaName: "MPL/Indonesia/Season_13", DisplayName: "MPL ID S13", Region: "Indonesia", Split: "2024 Spring"},
		{LiquipediaName: "MPL/Philippines/Season_13", DisplayName: "MPL PH S13", Region: "Philippines", Split: "2024 Spring"},
		{LiquipediaName: "MSC/2024", DisplayName: "MSC 2024", Region: "International", Split: "2024 Mid-Season"},
		{LiquipediaName: "M6_World_Championship", DisplayName: "M6 World Championship", Region: "International", Split: "2024 World"},
	}
}

// SeedTournaments registers entries without fetching any matches. A bad entry
// does not stop the rest; its error is joined into the returned error.
func SeedTournaments(ctx context.Context, repo *TournamentRepository, entries []tournament.RegistryEntry) (int, error) {
	var (
		registered int
		errs       []error
	)
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("invalid registry entry %q: %w", entry.LiquipediaName, err))
			continue
		}
		if _, err := repo.Register(ctx, entry.Tournament()); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", entry.DisplayName, err))
			continue
		}
		registered++
	}
	return registered, errors.Join(errs...)
}
