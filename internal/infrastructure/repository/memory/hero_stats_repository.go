package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
)

type HeroStatsRepository struct {
	store *Store
}

func NewHeroStatsRepository(store *Store) *HeroStatsRepository {
	return &HeroStatsRepository{store: store}
}

type gameKey struct {
	matchID int64
	game    int
}

func (r *HeroStatsRepository) GetTotals(_ context.Context, filter herostats.Filter) (herostats.Totals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.filteredMatchIDs(filter)
	games := make(map[gameKey]struct{})
	for _, id := range ids {
		for _, row := range s.actions[id] {
			games[gameKey{matchID: id, game: row.game}] = struct{}{}
		}
	}
	return herostats.Totals{Matches: len(ids), Games: len(games)}, nil
}

func (r *HeroStatsRepository) ListHeroCounts(_ context.Context, filter herostats.Filter) ([]herostats.HeroCounts, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byHero := make(map[int64]*herostats.HeroCounts)
	seen := make(map[int64]map[gameKey]struct{})
	for _, id := range s.filteredMatchIDs(filter) {
		for _, row := range s.actions[id] {
			c, ok := byHero[row.heroID]
			if !ok {
				c = &herostats.HeroCounts{HeroName: s.heroNames[row.heroID]}
				byHero[row.heroID] = c
				seen[row.heroID] = make(map[gameKey]struct{})
			}
			key := gameKey{matchID: id, game: row.game}
			if _, dup := seen[row.heroID][key]; !dup {
				seen[row.heroID][key] = struct{}{}
				c.GamesPresent++
			}
			if row.kind == match.ActionBan {
				c.Bans++
				continue
			}
			won := row.isWin != nil && *row.isWin
			c.Picks++
			if won {
				c.Wins++
			}
			switch row.side {
			case match.SideBlue:
				c.BluePicks++
				if won {
					c.BlueWins++
				}
			case match.SideRed:
				c.RedPicks++
				if won {
					c.RedWins++
				}
			}
		}
	}

	out := make([]herostats.HeroCounts, 0, len(byHero))
	for _, c := range byHero {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HeroName < out[j].HeroName })
	return out, nil
}

func (r *HeroStatsRepository) ListTeamPerformance(_ context.Context, heroName string, filter herostats.Filter) ([]herostats.TeamPerformance, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	heroID, ok := s.heroByName[heroName]
	if !ok {
		return []herostats.TeamPerformance{}, nil
	}

	byTeam := make(map[int64]*herostats.TeamPerformance)
	for _, id := range s.filteredMatchIDs(filter) {
		for _, row := range s.actions[id] {
			if row.heroID != heroID || row.kind != match.ActionPick {
				continue
			}
			p, ok := byTeam[row.teamID]
			if !ok {
				p = &herostats.TeamPerformance{TeamName: s.teamNames[row.teamID]}
				byTeam[row.teamID] = p
			}
			p.GamesPlayed++
			if row.isWin != nil && *row.isWin {
				p.Wins++
			}
		}
	}

	out := make([]herostats.TeamPerformance, 0, len(byTeam))
	for _, p := range byTeam {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GamesPlayed != out[j].GamesPlayed {
			return out[i].GamesPlayed > out[j].GamesPlayed
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out, nil
}

// ListOpponentMatchups pairs each pick of the hero with every other hero the
// opposing team picked in the same game.
func (r *HeroStatsRepository) ListOpponentMatchups(_ context.Context, heroName string, filter herostats.Filter) ([]herostats.OpponentMatchup, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	heroID, ok := s.heroByName[heroName]
	if !ok {
		return []herostats.OpponentMatchup{}, nil
	}

	byOpponent := make(map[int64]*herostats.OpponentMatchup)
	for _, id := range s.filteredMatchIDs(filter) {
		rows := s.actions[id]
		for _, own := range rows {
			if own.heroID != heroID || own.kind != match.ActionPick {
				continue
			}
			won := own.isWin != nil && *own.isWin
			for _, other := range rows {
				if other.kind != match.ActionPick || other.game != own.game ||
					other.teamID == own.teamID || other.heroID == own.heroID {
					continue
				}
				m, ok := byOpponent[other.heroID]
				if !ok {
					m = &herostats.OpponentMatchup{OpponentHero: s.heroNames[other.heroID]}
					byOpponent[other.heroID] = m
				}
				m.GamesFaced++
				if won {
					m.WinsAgainst++
				}
			}
		}
	}

	out := make([]herostats.OpponentMatchup, 0, len(byOpponent))
	for _, m := range byOpponent {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GamesFaced != out[j].GamesFaced {
			return out[i].GamesFaced > out[j].GamesFaced
		}
		return out[i].OpponentHero < out[j].OpponentHero
	})
	return out, nil
}

// filteredMatchIDs must be called with the lock held. Matches without a
// winner never qualify.
func (s *Store) filteredMatchIDs(filter herostats.Filter) []int64 {
	filter = filter.Normalize()
	tournaments := toSet(filter.Tournaments)
	stages := toSet(filter.Stages)
	teams := toSet(filter.Teams)

	out := make([]int64, 0, len(s.matches))
	for id, m := range s.matches {
		if m.WinnerID == nil {
			continue
		}
		if tournaments != nil {
			if _, ok := tournaments[s.tournaments[m.TournamentID].Name]; !ok {
				continue
			}
		}
		if stages != nil {
			if _, ok := stages[m.Stage]; !ok {
				continue
			}
		}
		if teams != nil {
			_, has1 := teams[s.teamNames[m.Team1ID]]
			_, has2 := teams[s.teamNames[m.Team2ID]]
			if !has1 && !has2 {
				continue
			}
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
