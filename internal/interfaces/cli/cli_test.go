package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

const seriesJSON = `{
  "pageid": 91,
  "pagename": "MPL/Test/Season_1/Playoffs",
  "section": "Grand Final",
  "date": "2024-03-01 12:00:00",
  "winner": "2",
  "match2opponents": [{"name": "Team Alpha", "score": 0}, {"name": "Team Beta", "score": 1}],
  "match2games": [
    {
      "winner": "2",
      "extradata": {"team1side": "red", "team2side": "blue", "team1ban1": "Valir", "team2ban1": "Fanny"},
      "participants": {
        "1_1": {"champion": "Ling"}, "1_2": {"champion": "Tigreal"}, "1_3": {"champion": "Pharsa"},
        "1_4": {"champion": "Beatrix"}, "1_5": {"champion": "Chou"},
        "2_1": {"champion": "Hayabusa"}, "2_2": {"champion": "Atlas"}, "2_3": {"champion": "Lunox"},
        "2_4": {"champion": "Brody"}, "2_5": {"champion": "Paquito"}
      }
    }
  ]
}`

type staticSource struct {
	matches map[string][]rawmatch.Match
}

func (s staticSource) FetchTournamentMatches(_ context.Context, page string) ([]rawmatch.Match, error) {
	return s.matches[page], nil
}

// newOpener shares one in-memory store across command runs.
func newOpener(t *testing.T) Opener {
	t.Helper()

	series, err := rawmatch.Decode([]byte(seriesJSON))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	store := memory.NewStore()
	matches := memory.NewMatchRepository(store)
	tournaments := memory.NewTournamentRepository(store)
	source := staticSource{matches: map[string][]rawmatch.Match{"MPL/Test/Season_1": {series}}}

	return func(_ context.Context, logger *logging.Logger) (*app.Services, error) {
		bulk := usecase.NewBulkUpdater(usecase.NewMatchReconciler(matches, nil), logger)
		return &app.Services{
			Ingestion: usecase.NewIngestionService(tournaments, source, bulk, 2, logger),
			Stats:     usecase.NewHeroStatsService(memory.NewHeroStatsRepository(store)),
			Catalog:   usecase.NewCatalogService(tournaments, memory.NewTeamRepository(store), memory.NewStageRepository(store), memory.NewHeroRepository(store), matches),
		}, nil
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	root := NewRootCommand(open, &logs)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRegistry(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tournaments.json")
	body := `[{"liquipedia_name": "MPL/Test/Season_1", "display_name": "MPL Test S1", "region": "Test", "split": "2024 Spring"}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	return path
}

func TestSeedThenStats(t *testing.T) {
	open := newOpener(t)

	out, err := run(t, open, "seed", "--file", writeRegistry(t))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Registered 1 tournament(s)") || !strings.Contains(out, "MPL Test S1") {
		t.Fatalf("unexpected seed output:\n%s", out)
	}

	out, err = run(t, open, "stats", "--tournament", "MPL Test S1", "--limit", "0")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Matches: 1", "Games: 1", "Hayabusa", "100.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in stats output:\n%s", want, out)
		}
	}
}

func TestHeroCommand(t *testing.T) {
	open := newOpener(t)
	if _, err := run(t, open, "seed", "--file", writeRegistry(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := run(t, open, "hero", "Hayabusa")
	if err != nil {
		t.Fatalf("hero: %v", err)
	}
	if !strings.Contains(out, "Team Beta") || !strings.Contains(out, "Ling") {
		t.Fatalf("unexpected hero output:\n%s", out)
	}

	if _, err := run(t, open, "hero"); err == nil {
		t.Fatalf("expected missing hero name to fail")
	}
}

func TestRefreshRequiresTarget(t *testing.T) {
	open := newOpener(t)

	if _, err := run(t, open, "refresh"); err == nil || !strings.Contains(err.Error(), "--page or --all") {
		t.Fatalf("expected target error, got %v", err)
	}

	out, err := run(t, open, "refresh", "--page", "MPL/Test/Season_1", "--tournament", "MPL Test S1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(out, "MPL/Test/Season_1") {
		t.Fatalf("unexpected refresh output:\n%s", out)
	}
}

func TestCountsAndTournaments(t *testing.T) {
	open := newOpener(t)
	if _, err := run(t, open, "seed", "--file", writeRegistry(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := run(t, open, "counts")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if !strings.Contains(out, "match_hero_actions") {
		t.Fatalf("unexpected counts output:\n%s", out)
	}

	out, err = run(t, open, "tournaments", "--group-by", "split")
	if err != nil {
		t.Fatalf("tournaments: %v", err)
	}
	if !strings.Contains(out, "2024 Spring") {
		t.Fatalf("unexpected grouping output:\n%s", out)
	}
}

func TestSeedRejectsEmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if _, err := run(t, newOpener(t), "seed", "--file", path); err == nil {
		t.Fatalf("expected missing registry to fail")
	}
}
