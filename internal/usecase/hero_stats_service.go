package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/sourcegraph/conc/pool"
)

// MinPicksForWinRateLeader keeps small samples out of highest_win_rate.
const MinPicksForWinRateLeader = 5

type HeroStat struct {
	HeroName  string  `json:"hero_name"`
	Picks     int     `json:"picks"`
	Bans      int     `json:"bans"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	PickRate  float64 `json:"pick_rate"`
	BanRate   float64 `json:"ban_rate"`
	Presence  float64 `json:"presence"`
	WinRate   float64 `json:"win_rate"`
	BluePicks int     `json:"blue_picks"`
	BlueWins  int     `json:"blue_wins"`
	RedPicks  int     `json:"red_picks"`
	RedWins   int     `json:"red_wins"`
}

type StatsSummary struct {
	TotalMatches   int       `json:"total_matches"`
	TotalGames     int       `json:"total_games"`
	TotalHeroes    int       `json:"total_heroes"`
	MostPicked     *HeroStat `json:"most_picked"`
	HighestWinRate *HeroStat `json:"highest_win_rate"`
}

type HeroStatsResult struct {
	Summary StatsSummary `json:"summary"`
	Heroes  []HeroStat   `json:"heroes"`
}

type TeamHeroPerformance struct {
	TeamName    string  `json:"team_name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"win_rate"`
}

type OpponentHeroMatchup struct {
	OpponentHeroName string  `json:"opponent_hero_name"`
	GamesFaced       int     `json:"games_faced"`
	WinsAgainst      int     `json:"wins_against"`
	WinRateVs        float64 `json:"win_rate_vs"`
}

type HeroDetailResult struct {
	HeroName    string                `json:"hero_name"`
	ByTeam      []TeamHeroPerformance `json:"by_team"`
	VsOpponents []OpponentHeroMatchup `json:"vs_opponents"`
}

type HeroStatsService struct {
	repo herostats.Repository
}

func NewHeroStatsService(repo herostats.Repository) *HeroStatsService {
	return &HeroStatsService{repo: repo}
}

// ComputeHeroStats aggregates pick, ban and win counts over matches with a
// winner that pass the filter. Heroes are ordered by presence, then name.
func (s *HeroStatsService) ComputeHeroStats(ctx context.Context, filter herostats.Filter) (HeroStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeroStatsService.ComputeHeroStats")
	defer span.End()

	filter = filter.Normalize()

	var (
		totals herostats.Totals
		counts []herostats.HeroCounts
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		totals, err = s.repo.GetTotals(ctx, filter)
		if err != nil {
			return fmt.Errorf("get totals: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		counts, err = s.repo.ListHeroCounts(ctx, filter)
		if err != nil {
			return fmt.Errorf("list hero counts: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return HeroStatsResult{}, err
	}

	result := HeroStatsResult{
		Summary: StatsSummary{TotalMatches: totals.Matches, TotalGames: totals.Games},
		Heroes:  []HeroStat{},
	}
	if totals.Matches == 0 || totals.Games == 0 {
		return result, nil
	}

	heroes := make([]HeroStat, 0, len(counts))
	for _, c := range counts {
		if c.Picks == 0 && c.Bans == 0 {
			continue
		}
		heroes = append(heroes, buildHeroStat(c, totals.Games))
	}
	sort.Slice(heroes, func(i, j int) bool {
		if heroes[i].Presence != heroes[j].Presence {
			return heroes[i].Presence > heroes[j].Presence
		}
		return heroes[i].HeroName < heroes[j].HeroName
	})

	result.Heroes = heroes
	result.Summary.TotalHeroes = len(heroes)
	result.Summary.MostPicked = mostPicked(heroes)
	result.Summary.HighestWinRate = highestWinRate(heroes)
	return result, nil
}

// ComputeHeroDetail breaks one hero's picks down by team and by the heroes
// the opposing team picked in the same game. Unknown heroes yield empty lists.
func (s *HeroStatsService) ComputeHeroDetail(ctx context.Context, heroName string, filter herostats.Filter) (HeroDetailResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeroStatsService.ComputeHeroDetail")
	defer span.End()

	heroName = strings.TrimSpace(heroName)
	if heroName == "" {
		return HeroDetailResult{}, fmt.Errorf("%w: hero name is required", ErrInvalidInput)
	}
	filter = filter.Normalize()

	var (
		teams     []herostats.TeamPerformance
		opponents []herostats.OpponentMatchup
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		teams, err = s.repo.ListTeamPerformance(ctx, heroName, filter)
		if err != nil {
			return fmt.Errorf("list team performance: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		opponents, err = s.repo.ListOpponentMatchups(ctx, heroName, filter)
		if err != nil {
			return fmt.Errorf("list opponent matchups: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return HeroDetailResult{}, err
	}

	result := HeroDetailResult{
		HeroName:    heroName,
		ByTeam:      make([]TeamHeroPerformance, 0, len(teams)),
		VsOpponents: make([]OpponentHeroMatchup, 0, len(opponents)),
	}
	for _, t := range teams {
		result.ByTeam = append(result.ByTeam, TeamHeroPerformance{
			TeamName:    t.TeamName,
			GamesPlayed: t.GamesPlayed,
			Wins:        t.Wins,
			WinRate:     percentage(t.Wins, t.GamesPlayed),
		})
	}
	for _, o := range opponents {
		result.VsOpponents = append(result.VsOpponents, OpponentHeroMatchup{
			OpponentHeroName: o.OpponentHero,
			GamesFaced:       o.GamesFaced,
			WinsAgainst:      o.WinsAgainst,
			WinRateVs:        percentage(o.WinsAgainst, o.GamesFaced),
		})
	}

	sort.SliceStable(result.ByTeam, func(i, j int) bool {
		if result.ByTeam[i].GamesPlayed != result.ByTeam[j].GamesPlayed {
			return result.ByTeam[i].GamesPlayed > result.ByTeam[j].GamesPlayed
		}
		return result.ByTeam[i].TeamName < result.ByTeam[j].TeamName
	})
	sort.SliceStable(result.VsOpponents, func(i, j int) bool {
		if result.VsOpponents[i].GamesFaced != result.VsOpponents[j].GamesFaced {
			return result.VsOpponents[i].GamesFaced > result.VsOpponents[j].GamesFaced
		}
		return result.VsOpponents[i].OpponentHeroName < result.VsOpponents[j].OpponentHeroName
	})
	return result, nil
}

func buildHeroStat(c herostats.HeroCounts, totalGames int) HeroStat {
	return HeroStat{
		HeroName:  c.HeroName,
		Picks:     c.Picks,
		Bans:      c.Bans,
		Wins:      c.Wins,
		Losses:    c.Picks - c.Wins,
		PickRate:  percentage(c.Picks, totalGames),
		BanRate:   percentage(c.Bans, totalGames),
		Presence:  percentage(c.GamesPresent, totalGames),
		WinRate:   percentage(c.Wins, c.Picks),
		BluePicks: c.BluePicks,
		BlueWins:  c.BlueWins,
		RedPicks:  c.RedPicks,
		RedWins:   c.RedWins,
	}
}

func mostPicked(heroes []HeroStat) *HeroStat {
	var best *HeroStat
	for idx := range heroes {
		h := &heroes[idx]
		if h.Picks == 0 {
			continue
		}
		if best == nil || h.Picks > best.Picks || (h.Picks == best.Picks && h.HeroName < best.HeroName) {
			best = h
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func highestWinRate(heroes []HeroStat) *HeroStat {
	var best *HeroStat
	for idx := range heroes {
		h := &heroes[idx]
		if h.Picks < MinPicksForWinRateLeader {
			continue
		}
		switch {
		case best == nil,
			h.WinRate > best.WinRate,
			h.WinRate == best.WinRate && h.Picks > best.Picks,
			h.WinRate == best.WinRate && h.Picks == best.Picks && h.HeroName < best.HeroName:
			best = h
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// percentage returns part/whole*100 rounded to two decimals, 0 when whole is 0.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
