package usecase

import (
	"fmt"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

type testGame struct {
	winner string
	side1  string
	side2  string
	bans1  []string
	bans2  []string
	picks1 []string
	picks2 []string
	// opponentsShape nests picks under opponents[i].players instead of participants.
	opponentsShape bool
}

type testSeries struct {
	team1  string
	team2  string
	date   string
	winner string
	score1 int
	score2 int
	page   string
	games  []testGame
}

func (s testSeries) raw() rawmatch.Match {
	page := s.page
	if page == "" {
		page = "MPL/Test/Season_1/Regular_Season"
	}
	games := make([]any, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g.payload())
	}
	return rawmatch.FromMap(map[string]any{
		"pageid":   float64(1001),
		"pagename": page,
		"section":  "Week 1",
		"winner":   s.winner,
		"date":     s.date,
		"match2opponents": []any{
			map[string]any{"name": s.team1, "score": float64(s.score1)},
			map[string]any{"name": s.team2, "score": float64(s.score2)},
		},
		"match2games": games,
	})
}

func (g testGame) payload() map[string]any {
	extra := map[string]any{}
	if g.side1 != "" {
		extra["team1side"] = g.side1
	}
	if g.side2 != "" {
		extra["team2side"] = g.side2
	}
	for idx, hero := range g.bans1 {
		extra[fmt.Sprintf("team1ban%d", idx+1)] = hero
	}
	for idx, hero := range g.bans2 {
		extra[fmt.Sprintf("team2ban%d", idx+1)] = hero
	}

	out := map[string]any{"winner": g.winner, "extradata": extra}
	if g.opponentsShape {
		out["opponents"] = []any{
			map[string]any{"players": playersOf(g.picks1)},
			map[string]any{"players": playersOf(g.picks2)},
		}
		return out
	}

	participants := map[string]any{}
	for idx, hero := range g.picks1 {
		participants[fmt.Sprintf("1_%d", idx+1)] = map[string]any{"champion": hero}
	}
	for idx, hero := range g.picks2 {
		participants[fmt.Sprintf("2_%d", idx+1)] = map[string]any{"champion": hero}
	}
	out["participants"] = participants
	return out
}

func playersOf(heroes []string) []any {
	out := make([]any, 0, len(heroes))
	for _, hero := range heroes {
		out = append(out, map[string]any{"champion": hero})
	}
	return out
}

// referenceSeries is a two-game series: A beats B twice from the blue side.
// B fields H6-H10 in game one and H11-H15 in game two.
func referenceSeries() testSeries {
	return testSeries{
		team1:  "A",
		team2:  "B",
		date:   "2024-01-01 10:00:00",
		winner: "1",
		score1: 2,
		score2: 0,
		games: []testGame{
			{
				winner: "1", side1: "blue", side2: "red",
				bans1:  []string{"X", "Y"},
				bans2:  []string{"Z", "W"},
				picks1: []string{"H1", "H2", "H3", "H4", "H5"},
				picks2: []string{"H6", "H7", "H8", "H9", "H10"},
			},
			{
				winner: "1", side1: "blue", side2: "red",
				picks1: []string{"H1", "H2", "H3", "H4", "H5"},
				picks2: []string{"H11", "H12", "H13", "H14", "H15"},
			},
		},
	}
}

type memoryFixture struct {
	store       *memory.Store
	matches     *memory.MatchRepository
	tournaments *memory.TournamentRepository
	stats       *memory.HeroStatsRepository
	reconciler  *MatchReconciler
	bulk        *BulkUpdater
	statsSvc    *HeroStatsService
}

func newMemoryFixture() memoryFixture {
	store := memory.NewStore()
	matches := memory.NewMatchRepository(store)
	reconciler := NewMatchReconciler(matches, nil)
	stats := memory.NewHeroStatsRepository(store)
	return memoryFixture{
		store:       store,
		matches:     matches,
		tournaments: memory.NewTournamentRepository(store),
		stats:       stats,
		reconciler:  reconciler,
		bulk:        NewBulkUpdater(reconciler, logging.NewNop()),
		statsSvc:    NewHeroStatsService(stats),
	}
}
