package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/hero"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/stage"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/team"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

const (
	GroupBySplit  = "split"
	GroupByRegion = "region"

	otherGroup = "Other"
)

type StageItem struct {
	Label    string `json:"label"`
	Priority int    `json:"priority"`
}

// CatalogService answers the listing queries used to build filter choices.
type CatalogService struct {
	tournaments tournament.Repository
	teams       team.Repository
	stages      stage.Repository
	heroes      hero.Repository
	matches     match.Repository
}

func NewCatalogService(
	tournaments tournament.Repository,
	teams team.Repository,
	stages stage.Repository,
	heroes hero.Repository,
	matches match.Repository,
) *CatalogService {
	return &CatalogService{
		tournaments: tournaments,
		teams:       teams,
		stages:      stages,
		heroes:      heroes,
		matches:     matches,
	}
}

func (s *CatalogService) ListTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListTournaments")
	defer span.End()

	items, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// GroupTournaments maps split or region to sorted tournament names. Blank
// group values land under "Other".
func (s *CatalogService) GroupTournaments(ctx context.Context, groupBy string) (map[string][]string, error) {
	groupBy = strings.ToLower(strings.TrimSpace(groupBy))
	if groupBy != GroupBySplit && groupBy != GroupByRegion {
		return nil, fmt.Errorf("%w: group_by must be %q or %q", ErrInvalidInput, GroupBySplit, GroupByRegion)
	}

	items, err := s.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	for _, item := range items {
		key := item.Split
		if groupBy == GroupByRegion {
			key = item.Region
		}
		key = strings.TrimSpace(key)
		if key == "" {
			key = otherGroup
		}
		out[key] = append(out[key], item.Name)
	}
	return out, nil
}

func (s *CatalogService) ListTeams(ctx context.Context, tournaments []string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListTeams")
	defer span.End()

	names, err := s.teams.ListTeamNames(ctx, trimValues(tournaments))
	if err != nil {
		return nil, fmt.Errorf("list team names: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *CatalogService) ListStages(ctx context.Context, tournaments []string) ([]StageItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListStages")
	defer span.End()

	items, err := s.stages.ListStages(ctx, trimValues(tournaments))
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].Label < items[j].Label
	})

	out := make([]StageItem, 0, len(items))
	for _, item := range items {
		out = append(out, StageItem{Label: item.Label, Priority: item.Priority})
	}
	return out, nil
}

func (s *CatalogService) ListHeroes(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListHeroes")
	defer span.End()

	names, err := s.heroes.ListHeroNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hero names: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Counts reports stored row counts per table.
func (s *CatalogService) Counts(ctx context.Context) (match.RowCounts, error) {
	counts, err := s.matches.CountRows(ctx)
	if err != nil {
		return match.RowCounts{}, fmt.Errorf("count rows: %w", err)
	}
	return counts, nil
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
