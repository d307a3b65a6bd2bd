package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	herostatsmock "github.com/riskibarqy/mlbb-analytics/internal/mocks/domain/herostats"
	"github.com/stretchr/testify/mock"
)

func TestHeroStatsRepository_MemoizesPerFilter(t *testing.T) {
	ctx := context.Background()
	next := herostatsmock.NewRepository(t)
	next.On("GetTotals", mock.Anything, mock.Anything).Return(herostats.Totals{Matches: 3, Games: 7}, nil).Once()

	repo := NewHeroStatsRepository(next, time.Minute)
	first := herostats.Filter{Tournaments: []string{"MPL ID S13", "MPL PH S13"}}
	reordered := herostats.Filter{Tournaments: []string{"MPL PH S13", "MPL ID S13", " "}}

	for _, filter := range []herostats.Filter{first, reordered} {
		totals, err := repo.GetTotals(ctx, filter)
		if err != nil {
			t.Fatalf("GetTotals error: %v", err)
		}
		if totals.Games != 7 {
			t.Fatalf("GetTotals games = %d, want 7", totals.Games)
		}
	}
}

func TestHeroStatsRepository_InvalidateReloads(t *testing.T) {
	ctx := context.Background()
	next := herostatsmock.NewRepository(t)
	next.On("ListHeroCounts", mock.Anything, mock.Anything).
		Return([]herostats.HeroCounts{{HeroName: "Ling", Picks: 1}}, nil).Once()
	next.On("ListHeroCounts", mock.Anything, mock.Anything).
		Return([]herostats.HeroCounts{{HeroName: "Ling", Picks: 2}}, nil).Once()

	repo := NewHeroStatsRepository(next, 0)

	items, err := repo.ListHeroCounts(ctx, herostats.Filter{})
	if err != nil || items[0].Picks != 1 {
		t.Fatalf("first ListHeroCounts = %+v, %v", items, err)
	}
	items[0].Picks = 99

	items, err = repo.ListHeroCounts(ctx, herostats.Filter{})
	if err != nil || items[0].Picks != 1 {
		t.Fatalf("cached ListHeroCounts must not leak caller mutations, got %+v, %v", items, err)
	}

	repo.Invalidate(ctx)
	items, err = repo.ListHeroCounts(ctx, herostats.Filter{})
	if err != nil || items[0].Picks != 2 {
		t.Fatalf("ListHeroCounts after Invalidate = %+v, %v", items, err)
	}
}

func TestHeroStatsRepository_KeysIncludeHeroName(t *testing.T) {
	ctx := context.Background()
	next := herostatsmock.NewRepository(t)
	next.On("ListTeamPerformance", mock.Anything, "Ling", mock.Anything).
		Return([]herostats.TeamPerformance{{TeamName: "Team Alpha"}}, nil).Once()
	next.On("ListTeamPerformance", mock.Anything, "Fanny", mock.Anything).
		Return([]herostats.TeamPerformance{{TeamName: "Team Beta"}}, nil).Once()

	repo := NewHeroStatsRepository(next, time.Minute)
	ling, _ := repo.ListTeamPerformance(ctx, "Ling", herostats.Filter{})
	fanny, _ := repo.ListTeamPerformance(ctx, "Fanny", herostats.Filter{})
	if ling[0].TeamName != "Team Alpha" || fanny[0].TeamName != "Team Beta" {
		t.Fatalf("unexpected rows: %+v %+v", ling, fanny)
	}
}
