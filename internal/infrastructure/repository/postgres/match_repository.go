package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	qb "github.com/riskibarqy/mlbb-analytics/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Reconcile writes one series in a single transaction. A transaction-scoped
// advisory lock keyed by the series identity serializes concurrent writers of
// the same series before the match row is read.
func (r *MatchRepository) Reconcile(ctx context.Context, rec match.Reconciliation) (match.Match, error) {
	if err := rec.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("invalid reconciliation: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Match{}, fmt.Errorf("begin tx reconcile match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, rec.LockKey()); err != nil {
		return match.Match{}, fmt.Errorf("lock match %s: %w", rec.LockKey(), err)
	}

	tournamentID, err := ensureTournament(ctx, tx, rec)
	if err != nil {
		return match.Match{}, err
	}
	team1ID, team2ID, err := ensureTeams(ctx, tx, rec.Team1, rec.Team2)
	if err != nil {
		return match.Match{}, err
	}

	var winnerID int64
	switch rec.WinnerSlot {
	case 1:
		winnerID = team1ID
	case 2:
		winnerID = team2ID
	}

	matchID, err := upsertMatch(ctx, tx, rec, tournamentID, team1ID, team2ID, winnerID)
	if err != nil {
		return match.Match{}, err
	}

	if err := replaceActions(ctx, tx, rec, matchID, team1ID, team2ID); err != nil {
		return match.Match{}, err
	}

	item, err := getMatchByID(ctx, tx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	if err := tx.Commit(); err != nil {
		return match.Match{}, fmt.Errorf("commit reconcile match tx: %w", err)
	}
	return item, nil
}

func (r *MatchRepository) CountRows(ctx context.Context) (match.RowCounts, error) {
	var row rowCountsModel
	if err := r.db.GetContext(ctx, &row, `
SELECT
	(SELECT COUNT(*) FROM tournaments) AS tournaments,
	(SELECT COUNT(*) FROM teams) AS teams,
	(SELECT COUNT(*) FROM heroes) AS heroes,
	(SELECT COUNT(*) FROM matches) AS matches,
	(SELECT COUNT(*) FROM match_hero_actions) AS hero_actions`); err != nil {
		return match.RowCounts{}, fmt.Errorf("count rows: %w", err)
	}

	return match.RowCounts{
		Tournaments: row.Tournaments,
		Teams:       row.Teams,
		Heroes:      row.Heroes,
		Matches:     row.Matches,
		HeroActions: row.HeroActions,
	}, nil
}

// ensureTournament sets region and split only when the row is created.
func ensureTournament(ctx context.Context, tx *sqlx.Tx, rec match.Reconciliation) (int64, error) {
	id, found, err := findIDByName(ctx, tx, "tournaments", rec.TournamentName)
	if err != nil || found {
		return id, err
	}

	query, args, err := qb.InsertModel("tournaments", tournamentInsertModel{
		Name:   rec.TournamentName,
		Region: rec.Region,
		Split:  rec.Split,
	}, "ON CONFLICT (name) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("build insert tournament query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert tournament %s: %w", rec.TournamentName, err)
	}

	return mustFindIDByName(ctx, tx, "tournaments", rec.TournamentName)
}

// ensureNamedRow is get-or-create for tables identified by a unique name.
// The insert tolerates a concurrent creator and the row is always re-read.
// ensureTeams creates both teams in name order so two series with the same
// pair of new teams cannot wait on each other's unique index entries.
func ensureTeams(ctx context.Context, tx *sqlx.Tx, team1, team2 string) (int64, int64, error) {
	ids := make(map[string]int64, 2)
	for _, name := range teamInsertOrder(team1, team2) {
		id, err := ensureNamedRow(ctx, tx, "teams", name)
		if err != nil {
			return 0, 0, err
		}
		ids[name] = id
	}
	return ids[team1], ids[team2], nil
}

func teamInsertOrder(team1, team2 string) []string {
	if team2 < team1 {
		return []string{team2, team1}
	}
	return []string{team1, team2}
}

func ensureNamedRow(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, error) {
	id, found, err := findIDByName(ctx, tx, table, name)
	if err != nil || found {
		return id, err
	}

	query, args, err := qb.InsertInto(table).
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert %s %s: %w", table, name, err)
	}

	return mustFindIDByName(ctx, tx, table, name)
}

func findIDByName(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, bool, error) {
	query, args, err := qb.Select("id").From(table).
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build select %s id query: %w", table, err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select %s id: %w", table, err)
	}
	return id, true, nil
}

func mustFindIDByName(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, error) {
	id, found, err := findIDByName(ctx, tx, table, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("select %s id: %s not visible after insert", table, name)
	}
	return id, nil
}

// upsertMatch creates the match or updates its mutable fields. External id,
// tournament and identity are fixed once the row exists.
func upsertMatch(ctx context.Context, tx *sqlx.Tx, rec match.Reconciliation, tournamentID, team1ID, team2ID, winnerID int64) (int64, error) {
	matchDate := rec.MatchDate.UTC()
	details := string(rec.Details)
	if len(rec.Details) == 0 {
		details = "{}"
	}

	query, args, err := qb.Select("id").From("matches").
		Where(
			qb.Eq("team1_id", team1ID),
			qb.Eq("team2_id", team2ID),
			qb.Eq("match_date", matchDate),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select match query: %w", err)
	}

	var matchID int64
	err = tx.GetContext(ctx, &matchID, query, args...)
	switch {
	case err == nil:
		updateQuery, updateArgs, err := qb.Update("matches").
			Set("winner_id", nullInt64(winnerID)).
			Set("team1_score", rec.Team1Score).
			Set("team2_score", rec.Team2Score).
			Set("details", details).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", matchID)).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build update match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return 0, fmt.Errorf("update match %d: %w", matchID, err)
		}
		return matchID, nil
	case !isNotFound(err):
		return 0, fmt.Errorf("select match: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertModel("matches", matchInsertModel{
		ExternalID:   nullInt64(rec.ExternalID),
		TournamentID: tournamentID,
		Team1ID:      team1ID,
		Team2ID:      team2ID,
		WinnerID:     nullInt64(winnerID),
		Team1Score:   rec.Team1Score,
		Team2Score:   rec.Team2Score,
		MatchDate:    matchDate,
		Details:      details,
	}, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert match query: %w", err)
	}
	if err := tx.GetContext(ctx, &matchID, insertQuery, insertArgs...); err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return matchID, nil
}

// replaceActions deletes the stored picks and bans of the match and writes the
// deduplicated set. Heroes are created first and re-read so every action row
// references a visible id.
func replaceActions(ctx context.Context, tx *sqlx.Tx, rec match.Reconciliation, matchID, team1ID, team2ID int64) error {
	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_hero_actions").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match hero actions query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete match hero actions: %w", err)
	}

	actions := match.DedupeActions(rec.Actions)
	if len(actions) == 0 {
		return nil
	}

	heroIDs, err := ensureHeroes(ctx, tx, rec.HeroNames())
	if err != nil {
		return err
	}

	insert := qb.InsertInto("match_hero_actions").
		Columns("match_id", "hero_id", "team_id", "action_type", "game_number", "is_win", "side")
	for _, action := range actions {
		heroID, ok := heroIDs[action.HeroName]
		if !ok {
			return fmt.Errorf("hero %q missing after get-or-create", action.HeroName)
		}
		teamID := team1ID
		if action.TeamSlot == 2 {
			teamID = team2ID
		}
		insert = insert.Values(
			matchID,
			heroID,
			teamID,
			string(action.Type),
			action.GameNumber,
			nullBool(action.IsWin),
			nullString(string(action.Side)),
		)
	}

	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match hero actions query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match hero actions: %w", err)
	}
	return nil
}

// ensureHeroes resolves names in two phases: create the missing ones, then
// read the complete name to id map back.
func ensureHeroes(ctx context.Context, tx *sqlx.Tx, names []string) (map[string]int64, error) {
	existing, err := selectHeroIDs(ctx, tx, names)
	if err != nil {
		return nil, err
	}
	if len(existing) == len(names) {
		return existing, nil
	}

	insert := qb.InsertInto("heroes").Columns("name").Suffix("ON CONFLICT (name) DO NOTHING")
	for _, name := range names {
		if _, ok := existing[name]; !ok {
			insert = insert.Values(name)
		}
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build insert heroes query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert heroes: %w", err)
	}

	return selectHeroIDs(ctx, tx, names)
}

func selectHeroIDs(ctx context.Context, tx *sqlx.Tx, names []string) (map[string]int64, error) {
	query, args, err := qb.Select("id", "name").From("heroes").
		Where(qb.Any("name", pq.Array(names))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select heroes query: %w", err)
	}

	var rows []namedRowModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select heroes: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.ID
	}
	return out, nil
}

func getMatchByID(ctx context.Context, tx *sqlx.Tx, matchID int64) (match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("select match %d: %w", matchID, err)
	}

	return match.Match{
		ID:            row.ID,
		ExternalID:    row.ExternalID.Int64,
		TournamentID:  row.TournamentID,
		Team1ID:       row.Team1ID,
		Team2ID:       row.Team2ID,
		WinnerID:      nullInt64Ptr(row.WinnerID),
		Team1Score:    row.Team1Score,
		Team2Score:    row.Team2Score,
		MatchDate:     row.MatchDate.UTC(),
		Stage:         row.StageType,
		StagePriority: row.StagePriority,
		Details:       row.Details,
	}, nil
}
