package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/stage"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) ListTeamNames(_ context.Context, tournaments []string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if len(tournaments) == 0 {
		out := make([]string, 0, len(r.store.teamNames))
		for _, name := range r.store.teamNames {
			out = append(out, name)
		}
		sort.Strings(out)
		return out, nil
	}

	allowed := r.store.tournamentIDs(tournaments)
	seen := make(map[string]struct{})
	for _, m := range r.store.matches {
		if _, ok := allowed[m.TournamentID]; !ok {
			continue
		}
		seen[r.store.teamNames[m.Team1ID]] = struct{}{}
		seen[r.store.teamNames[m.Team2ID]] = struct{}{}
	}
	return sortedKeys(seen), nil
}

type HeroRepository struct {
	store *Store
}

func NewHeroRepository(store *Store) *HeroRepository {
	return &HeroRepository{store: store}
}

func (r *HeroRepository) ListHeroNames(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0, len(r.store.heroNames))
	for _, name := range r.store.heroNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

type StageRepository struct {
	store *Store
}

func NewStageRepository(store *Store) *StageRepository {
	return &StageRepository{store: store}
}

func (r *StageRepository) ListStages(_ context.Context, tournaments []string) ([]stage.Info, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var allowed map[int64]struct{}
	if len(tournaments) > 0 {
		allowed = r.store.tournamentIDs(tournaments)
	}

	seen := make(map[stage.Info]struct{})
	for _, m := range r.store.matches {
		if allowed != nil {
			if _, ok := allowed[m.TournamentID]; !ok {
				continue
			}
		}
		seen[stage.Info{Label: m.Stage, Priority: m.StagePriority}] = struct{}{}
	}

	out := make([]stage.Info, 0, len(seen))
	for info := range seen {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

// tournamentIDs must be called with the lock held.
func (s *Store) tournamentIDs(names []string) map[int64]struct{} {
	out := make(map[int64]struct{}, len(names))
	for _, name := range names {
		if id, ok := s.tournamentByName[name]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
