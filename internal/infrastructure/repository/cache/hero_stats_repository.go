package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	basecache "github.com/riskibarqy/mlbb-analytics/internal/platform/cache"
)

// HeroStatsRepository memoizes aggregate reads per filter. Stored matches
// change only through ingestion, which calls Invalidate afterwards.
type HeroStatsRepository struct {
	next      herostats.Repository
	totals    *basecache.Store[herostats.Totals]
	counts    *basecache.Store[[]herostats.HeroCounts]
	teams     *basecache.Store[[]herostats.TeamPerformance]
	opponents *basecache.Store[[]herostats.OpponentMatchup]
}

func NewHeroStatsRepository(next herostats.Repository, ttl time.Duration) *HeroStatsRepository {
	return &HeroStatsRepository{
		next:      next,
		totals:    basecache.NewStore[herostats.Totals](ttl),
		counts:    basecache.NewStore[[]herostats.HeroCounts](ttl),
		teams:     basecache.NewStore[[]herostats.TeamPerformance](ttl),
		opponents: basecache.NewStore[[]herostats.OpponentMatchup](ttl),
	}
}

func (r *HeroStatsRepository) GetTotals(ctx context.Context, filter herostats.Filter) (herostats.Totals, error) {
	return r.totals.GetOrLoad(ctx, filterKey("", filter), func(ctx context.Context) (herostats.Totals, error) {
		return r.next.GetTotals(ctx, filter)
	})
}

func (r *HeroStatsRepository) ListHeroCounts(ctx context.Context, filter herostats.Filter) ([]herostats.HeroCounts, error) {
	items, err := r.counts.GetOrLoad(ctx, filterKey("", filter), func(ctx context.Context) ([]herostats.HeroCounts, error) {
		return r.next.ListHeroCounts(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]herostats.HeroCounts(nil), items...), nil
}

func (r *HeroStatsRepository) ListTeamPerformance(ctx context.Context, heroName string, filter herostats.Filter) ([]herostats.TeamPerformance, error) {
	items, err := r.teams.GetOrLoad(ctx, filterKey(heroName, filter), func(ctx context.Context) ([]herostats.TeamPerformance, error) {
		return r.next.ListTeamPerformance(ctx, heroName, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]herostats.TeamPerformance(nil), items...), nil
}

func (r *HeroStatsRepository) ListOpponentMatchups(ctx context.Context, heroName string, filter herostats.Filter) ([]herostats.OpponentMatchup, error) {
	items, err := r.opponents.GetOrLoad(ctx, filterKey(heroName, filter), func(ctx context.Context) ([]herostats.OpponentMatchup, error) {
		return r.next.ListOpponentMatchups(ctx, heroName, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]herostats.OpponentMatchup(nil), items...), nil
}

// Invalidate drops every memoized aggregate.
func (r *HeroStatsRepository) Invalidate(ctx context.Context) {
	r.totals.Purge(ctx)
	r.counts.Purge(ctx)
	r.teams.Purge(ctx)
	r.opponents.Purge(ctx)
}

// filterKey is order-insensitive so t=A&t=B and t=B&t=A share an entry.
func filterKey(heroName string, filter herostats.Filter) string {
	filter = filter.Normalize()

	var b strings.Builder
	b.WriteString(heroName)
	for _, part := range [][]string{filter.Tournaments, filter.Stages, filter.Teams} {
		values := append([]string(nil), part...)
		sort.Strings(values)
		b.WriteByte('|')
		b.WriteString(strings.Join(values, "\x1f"))
	}
	return b.String()
}
