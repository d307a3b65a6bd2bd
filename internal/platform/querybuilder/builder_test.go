package querybuilder

import (
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("region", "ID"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE region = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "ID" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinOrAndSubquery(t *testing.T) {
	matchIDs := Select("m.id").
		From("matches m").
		Join("JOIN tournaments t ON t.id = m.tournament_id").
		Where(IsNotNull("m.winner_id"), Any("t.name", "tournaments-array"))

	query, args, err := Select("h.name", "COUNT(*) AS picks").
		From("match_hero_actions a").
		Join("JOIN heroes h ON h.id = a.hero_id").
		Where(
			Eq("a.action_type", "pick"),
			InQuery("a.match_id", matchIDs),
			Or(Eq("a.team_id", 1), Eq("a.team_id", 2)),
		).
		GroupBy("h.name").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT h.name, COUNT(*) AS picks FROM match_hero_actions a JOIN heroes h ON h.id = a.hero_id" +
		" WHERE a.action_type = $1 AND a.match_id IN (SELECT m.id FROM matches m JOIN tournaments t ON t.id = m.tournament_id" +
		" WHERE m.winner_id IS NOT NULL AND t.name = ANY($2)) AND (a.team_id = $3 OR a.team_id = $4) GROUP BY h.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "pick" || args[1] != "tournaments-array" || args[2] != 1 || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("heroes").
		Columns("name").
		Values("Ling").
		Values("Fanny").
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO heroes (name) VALUES ($1), ($2) ON CONFLICT (name) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Ling" || args[1] != "Fanny" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("heroes").Columns("id", "name").Values("only-one").ToSQL()
	if err == nil {
		t.Fatalf("expected error for mismatched row width")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("team1_score", 3).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET team1_score = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 3 || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("match_hero_actions").Where(Eq("match_id", int64(9))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM match_hero_actions WHERE match_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("match_hero_actions").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}
}

func TestInsertModel_SkipsReadonlyColumns(t *testing.T) {
	type row struct {
		ID     int64  `db:"id,readonly"`
		Name   string `db:"name"`
		Region string `db:"region"`
		Note   string `db:"-"`
		hidden string
	}

	query, args, err := InsertModel("tournaments", row{ID: 1, Name: "MPL ID S13", Region: "ID", hidden: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO tournaments (name, region) VALUES ($1, $2) RETURNING id" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "MPL ID S13" || args[1] != "ID" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
