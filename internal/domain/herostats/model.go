package herostats

import "strings"

// Filter narrows the match population. Dimensions are AND-ed; values within a
// dimension are OR-ed. Empty dimensions do not filter.
type Filter struct {
	Tournaments []string
	Stages      []string
	Teams       []string
}

// Normalize trims values and drops blanks and duplicates.
func (f Filter) Normalize() Filter {
	return Filter{
		Tournaments: cleanValues(f.Tournaments),
		Stages:      cleanValues(f.Stages),
		Teams:       cleanValues(f.Teams),
	}
}

func (f Filter) IsEmpty() bool {
	return len(f.Tournaments) == 0 && len(f.Stages) == 0 && len(f.Teams) == 0
}

func cleanValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Totals are the denominators for rate calculations.
type Totals struct {
	Matches int
	Games   int
}

// HeroCounts are raw per-hero action counts over the filtered matches.
// GamesPresent counts distinct games with any pick or ban of the hero, so a
// hero banned by one side and picked by the other counts once.
type HeroCounts struct {
	HeroName     string
	Picks        int
	Bans         int
	GamesPresent int
	Wins         int
	BluePicks    int
	BlueWins     int
	RedPicks     int
	RedWins      int
}

type TeamPerformance struct {
	TeamName    string
	GamesPlayed int
	Wins        int
}

type OpponentMatchup struct {
	OpponentHero string
	GamesFaced   int
	WinsAgainst  int
}
