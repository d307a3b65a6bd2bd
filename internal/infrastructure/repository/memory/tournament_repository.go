package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

type TournamentRepository struct {
	store *Store
}

func NewTournamentRepository(store *Store) *TournamentRepository {
	return &TournamentRepository{store: store}
}

func (r *TournamentRepository) GetByName(_ context.Context, name string) (tournament.Tournament, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.tournamentByName[strings.TrimSpace(name)]
	if !ok {
		return tournament.Tournament{}, false, nil
	}
	return r.store.tournaments[id], true, nil
}

func (r *TournamentRepository) GetBySourcePage(_ context.Context, page string) (tournament.Tournament, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	page = strings.TrimSpace(page)
	if page == "" {
		return tournament.Tournament{}, false, nil
	}
	for _, item := range r.store.tournaments {
		if item.SourcePage == page {
			return item, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.store.tournaments))
	for _, item := range r.store.tournaments {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TournamentRepository) Register(_ context.Context, item tournament.Tournament) (tournament.Tournament, error) {
	if err := item.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("invalid tournament: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item.Name = strings.TrimSpace(item.Name)
	for _, existing := range r.store.tournaments {
		if item.SourcePage != "" && existing.SourcePage == item.SourcePage && existing.Name != item.Name {
			return tournament.Tournament{}, fmt.Errorf("source page %q already registered for %q", item.SourcePage, existing.Name)
		}
	}

	if id, ok := r.store.tournamentByName[item.Name]; ok {
		existing := r.store.tournaments[id]
		if item.Region != "" {
			existing.Region = item.Region
		}
		if item.Split != "" {
			existing.Split = item.Split
		}
		if item.SourcePage != "" {
			existing.SourcePage = item.SourcePage
		}
		r.store.tournaments[id] = existing
		return existing, nil
	}

	item.ID = r.store.nextID()
	r.store.tournaments[item.ID] = item
	r.store.tournamentByName[item.Name] = item.ID
	return item, nil
}
