package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	qb "github.com/riskibarqy/mlbb-analytics/internal/platform/querybuilder"
)

type HeroStatsRepository struct {
	db *sqlx.DB
}

func NewHeroStatsRepository(db *sqlx.DB) *HeroStatsRepository {
	return &HeroStatsRepository{db: db}
}

// matchScopeJoins expects matches aliased as m.
var matchScopeJoins = []string{
	"JOIN tournaments t ON t.id = m.tournament_id",
	"JOIN teams t1 ON t1.id = m.team1_id",
	"JOIN teams t2 ON t2.id = m.team2_id",
}

// matchScope applies the shared population rules: decided matches only,
// filter dimensions AND-ed, values within a dimension OR-ed.
func matchScope(builder *qb.SelectBuilder, filter herostats.Filter) *qb.SelectBuilder {
	filter = filter.Normalize()
	for _, join := range matchScopeJoins {
		builder = builder.Join(join)
	}

	conditions := []qb.Condition{qb.IsNotNull("m.winner_id")}
	conditions = append(conditions, anyOf("t.name", filter.Tournaments)...)
	conditions = append(conditions, anyOf("COALESCE(m.details->>'stage_type', '')", filter.Stages)...)
	if len(filter.Teams) > 0 {
		conditions = append(conditions, qb.Or(
			qb.Any("t1.name", pq.Array(filter.Teams)),
			qb.Any("t2.name", pq.Array(filter.Teams)),
		))
	}
	return builder.Where(conditions...)
}

func (r *HeroStatsRepository) GetTotals(ctx context.Context, filter herostats.Filter) (herostats.Totals, error) {
	builder := qb.Select(
		"COUNT(DISTINCT m.id) AS matches",
		"COUNT(DISTINCT a.match_id::text || ':' || a.game_number::text) AS games",
	).
		From("matches m").
		Join("LEFT JOIN match_hero_actions a ON a.match_id = m.id")
	query, args, err := matchScope(builder, filter).ToSQL()
	if err != nil {
		return herostats.Totals{}, fmt.Errorf("build select hero stats totals query: %w", err)
	}

	var row totalsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return herostats.Totals{}, fmt.Errorf("select hero stats totals: %w", err)
	}
	return herostats.Totals{Matches: row.Matches, Games: row.Games}, nil
}

// ListHeroCounts mirrors the memory repository's counting; integration_test.go
// runs it against a live database under the integration build tag.
func (r *HeroStatsRepository) ListHeroCounts(ctx context.Context, filter herostats.Filter) ([]herostats.HeroCounts, error) {
	builder := qb.Select(
		"h.name AS hero_name",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick') AS picks",
		"COUNT(*) FILTER (WHERE a.action_type = 'ban') AS bans",
		"COUNT(DISTINCT (a.match_id, a.game_number)) AS games_present",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick' AND a.is_win) AS wins",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick' AND a.side = 'blue') AS blue_picks",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick' AND a.side = 'blue' AND a.is_win) AS blue_wins",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick' AND a.side = 'red') AS red_picks",
		"COUNT(*) FILTER (WHERE a.action_type = 'pick' AND a.side = 'red' AND a.is_win) AS red_wins",
	).
		From("match_hero_actions a").
		Join("JOIN heroes h ON h.id = a.hero_id").
		Join("JOIN matches m ON m.id = a.match_id")
	query, args, err := matchScope(builder, filter).
		GroupBy("h.name").
		OrderBy("h.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select hero counts query: %w", err)
	}

	var rows []heroCountsModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select hero counts: %w", err)
	}

	out := make([]herostats.HeroCounts, 0, len(rows))
	for _, row := range rows {
		out = append(out, herostats.HeroCounts{
			HeroName:     row.HeroName,
			Picks:        row.Picks,
			Bans:         row.Bans,
			GamesPresent: row.GamesPresent,
			Wins:         row.Wins,
			BluePicks:    row.BluePicks,
			BlueWins:     row.BlueWins,
			RedPicks:     row.RedPicks,
			RedWins:      row.RedWins,
		})
	}
	return out, nil
}

func (r *HeroStatsRepository) ListTeamPerformance(ctx context.Context, heroName string, filter herostats.Filter) ([]herostats.TeamPerformance, error) {
	builder := qb.Select(
		"tm.name AS team_name",
		"COUNT(*) AS games_played",
		"COUNT(*) FILTER (WHERE a.is_win) AS wins",
	).
		From("match_hero_actions a").
		Join("JOIN heroes h ON h.id = a.hero_id").
		Join("JOIN teams tm ON tm.id = a.team_id").
		Join("JOIN matches m ON m.id = a.match_id").
		Where(
			qb.Eq("h.name", heroName),
			qb.EqLiteral("a.action_type", "pick"),
		)
	query, args, err := matchScope(builder, filter).
		GroupBy("tm.name").
		OrderBy("games_played DESC", "tm.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select hero team performance query: %w", err)
	}

	var rows []teamPerformanceModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select hero team performance: %w", err)
	}

	out := make([]herostats.TeamPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, herostats.TeamPerformance{
			TeamName:    row.TeamName,
			GamesPlayed: row.GamesPlayed,
			Wins:        row.Wins,
		})
	}
	return out, nil
}

// ListOpponentMatchups self-joins the action table: every pick of the hero is
// paired with each pick of the other team in the same game.
func (r *HeroStatsRepository) ListOpponentMatchups(ctx context.Context, heroName string, filter herostats.Filter) ([]herostats.OpponentMatchup, error) {
	builder := qb.Select(
		"oh.name AS opponent_hero",
		"COUNT(*) AS games_faced",
		"COUNT(*) FILTER (WHERE a.is_win) AS wins_against",
	).
		From("match_hero_actions a").
		Join("JOIN heroes h ON h.id = a.hero_id").
		Join(`JOIN match_hero_actions o ON o.match_id = a.match_id
	AND o.game_number = a.game_number
	AND o.team_id <> a.team_id
	AND o.action_type = 'pick'
	AND o.hero_id <> a.hero_id`).
		Join("JOIN heroes oh ON oh.id = o.hero_id").
		Join("JOIN matches m ON m.id = a.match_id").
		Where(
			qb.Eq("h.name", heroName),
			qb.EqLiteral("a.action_type", "pick"),
		)
	query, args, err := matchScope(builder, filter).
		GroupBy("oh.name").
		OrderBy("games_faced DESC", "oh.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select hero opponent matchups query: %w", err)
	}

	var rows []opponentMatchupModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select hero opponent matchups: %w", err)
	}

	out := make([]herostats.OpponentMatchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, herostats.OpponentMatchup{
			OpponentHero: row.OpponentHero,
			GamesFaced:   row.GamesFaced,
			WinsAgainst:  row.WinsAgainst,
		})
	}
	return out, nil
}
