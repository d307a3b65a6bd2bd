package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func writeUpdateTable(w io.Writer, items []usecase.UpdateResult) {
	table := newTable(w)
	table.Header("TOURNAMENT", "PAGE", "STATUS", "TOTAL", "RECONCILED", "SKIPPED", "FAILED")
	for _, item := range items {
		table.Append(
			item.Tournament,
			item.Page,
			item.Status,
			strconv.Itoa(item.Total),
			strconv.Itoa(item.Reconciled),
			strconv.Itoa(item.Skipped),
			strconv.Itoa(item.Failed),
		)
	}
	table.Render()
}

func writeHeroStats(w io.Writer, result usecase.HeroStatsResult, limit int) {
	summary := result.Summary
	fmt.Fprintf(w, "Matches: %d  |  Games: %d  |  Heroes: %d\n", summary.TotalMatches, summary.TotalGames, summary.TotalHeroes)
	if summary.MostPicked != nil {
		fmt.Fprintf(w, "Most picked: %s (%d picks)\n", summary.MostPicked.HeroName, summary.MostPicked.Picks)
	}
	if summary.HighestWinRate != nil {
		fmt.Fprintf(w, "Highest win rate: %s (%s over %d picks)\n", summary.HighestWinRate.HeroName, pct(summary.HighestWinRate.WinRate), summary.HighestWinRate.Picks)
	}
	fmt.Fprintln(w)

	heroes := result.Heroes
	if limit > 0 && len(heroes) > limit {
		heroes = heroes[:limit]
	}
	table := newTable(w)
	table.Header("HERO", "PICKS", "BANS", "WINS", "PICK%", "BAN%", "PRESENCE", "WIN%", "BLUE W/P", "RED W/P")
	for _, h := range heroes {
		table.Append(
			h.HeroName,
			strconv.Itoa(h.Picks),
			strconv.Itoa(h.Bans),
			strconv.Itoa(h.Wins),
			pct(h.PickRate),
			pct(h.BanRate),
			pct(h.Presence),
			pct(h.WinRate),
			fmt.Sprintf("%d/%d", h.BlueWins, h.BluePicks),
			fmt.Sprintf("%d/%d", h.RedWins, h.RedPicks),
		)
	}
	table.Render()
}

func writeHeroDetail(w io.Writer, result usecase.HeroDetailResult) {
	fmt.Fprintf(w, "\n--- %s by team ---\n\n", result.HeroName)
	byTeam := newTable(w)
	byTeam.Header("TEAM", "GAMES", "WINS", "WIN%")
	for _, row := range result.ByTeam {
		byTeam.Append(row.TeamName, strconv.Itoa(row.GamesPlayed), strconv.Itoa(row.Wins), pct(row.WinRate))
	}
	byTeam.Render()

	fmt.Fprintf(w, "\n--- %s against ---\n\n", result.HeroName)
	vs := newTable(w)
	vs.Header("OPPONENT HERO", "GAMES", "WINS", "WIN%")
	for _, row := range result.VsOpponents {
		vs.Append(row.OpponentHeroName, strconv.Itoa(row.GamesFaced), strconv.Itoa(row.WinsAgainst), pct(row.WinRateVs))
	}
	vs.Render()
}

func writeTournaments(w io.Writer, items []tournament.Tournament) {
	table := newTable(w)
	table.Header("NAME", "REGION", "SPLIT", "PAGE")
	for _, item := range items {
		table.Append(item.Name, item.Region, item.Split, item.SourcePage)
	}
	table.Render()
}

func writeGroups(w io.Writer, groups map[string][]string) {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := newTable(w)
	table.Header("GROUP", "TOURNAMENT")
	for _, key := range keys {
		for _, name := range groups[key] {
			table.Append(key, name)
		}
	}
	table.Render()
}

func writeCounts(w io.Writer, counts match.RowCounts) {
	table := newTable(w)
	table.Header("TABLE", "ROWS")
	table.Append("tournaments", strconv.Itoa(counts.Tournaments))
	table.Append("teams", strconv.Itoa(counts.Teams))
	table.Append("heroes", strconv.Itoa(counts.Heroes))
	table.Append("matches", strconv.Itoa(counts.Matches))
	table.Append("match_hero_actions", strconv.Itoa(counts.HeroActions))
	table.Render()
}
