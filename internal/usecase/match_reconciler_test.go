package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/team"
	matchmock "github.com/riskibarqy/mlbb-analytics/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

var testTournament = TournamentContext{Name: "MPL Test S1", Region: "Test", Split: "2024 Spring"}

func TestMatchReconciler_ReconcileIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMemoryFixture()

	first, err := fx.reconciler.Reconcile(ctx, referenceSeries().raw(), testTournament)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	countsAfterFirst, _ := fx.matches.CountRows(ctx)
	statsAfterFirst, _ := fx.statsSvc.ComputeHeroStats(ctx, herostats.Filter{})

	second, err := fx.reconciler.Reconcile(ctx, referenceSeries().raw(), testTournament)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	countsAfterSecond, _ := fx.matches.CountRows(ctx)
	statsAfterSecond, _ := fx.statsSvc.ComputeHeroStats(ctx, herostats.Filter{})

	if first.ID != second.ID || first.Team1Score != second.Team1Score || *first.WinnerID != *second.WinnerID {
		t.Fatalf("match fields changed: first=%+v second=%+v", first, second)
	}
	if !bytes.Equal(first.Details, second.Details) {
		t.Fatalf("stored details changed between reconciliations")
	}
	if countsAfterFirst != countsAfterSecond {
		t.Fatalf("row counts changed: %+v vs %+v", countsAfterFirst, countsAfterSecond)
	}
	if countsAfterSecond.HeroActions != 24 {
		t.Fatalf("expected 24 hero actions (20 picks, 4 bans), got %d", countsAfterSecond.HeroActions)
	}
	if len(statsAfterFirst.Heroes) != len(statsAfterSecond.Heroes) {
		t.Fatalf("hero list changed between reconciliations")
	}
	for idx := range statsAfterFirst.Heroes {
		if statsAfterFirst.Heroes[idx] != statsAfterSecond.Heroes[idx] {
			t.Fatalf("hero stat changed: %+v vs %+v", statsAfterFirst.Heroes[idx], statsAfterSecond.Heroes[idx])
		}
	}
}

func TestMatchReconciler_ReseedReplacesScoreAndBans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMemoryFixture()

	original := referenceSeries()
	if _, err := fx.reconciler.Reconcile(ctx, original.raw(), testTournament); err != nil {
		t.Fatalf("reconcile original: %v", err)
	}

	updated := referenceSeries()
	updated.score1, updated.score2 = 2, 1
	updated.games[0].bans1 = []string{"X", "Y", "V"}
	updated.games[0].bans2 = []string{"Z"}
	item, err := fx.reconciler.Reconcile(ctx, updated.raw(), testTournament)
	if err != nil {
		t.Fatalf("reconcile update: %v", err)
	}

	counts, _ := fx.matches.CountRows(ctx)
	if counts.Matches != 1 {
		t.Fatalf("expected one match row, got %d", counts.Matches)
	}
	if item.Team1Score != 2 || item.Team2Score != 1 {
		t.Fatalf("score not updated: %d-%d", item.Team1Score, item.Team2Score)
	}

	heroCounts, _ := fx.stats.ListHeroCounts(ctx, herostats.Filter{})
	bans := map[string]int{}
	for _, c := range heroCounts {
		if c.Bans > 0 {
			bans[c.HeroName] = c.Bans
		}
	}
	if len(bans) != 4 || bans["V"] != 1 || bans["W"] != 0 {
		t.Fatalf("ban set not replaced: %v", bans)
	}
}

func TestMatchReconciler_OpponentsShapeMatchesParticipantsShape(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	participants := newMemoryFixture()
	opponents := newMemoryFixture()

	series := referenceSeries()
	if _, err := participants.reconciler.Reconcile(ctx, series.raw(), testTournament); err != nil {
		t.Fatalf("reconcile participants shape: %v", err)
	}
	for idx := range series.games {
		series.games[idx].opponentsShape = true
	}
	if _, err := opponents.reconciler.Reconcile(ctx, series.raw(), testTournament); err != nil {
		t.Fatalf("reconcile opponents shape: %v", err)
	}

	want, _ := participants.statsSvc.ComputeHeroStats(ctx, herostats.Filter{})
	got, _ := opponents.statsSvc.ComputeHeroStats(ctx, herostats.Filter{})
	if len(want.Heroes) != len(got.Heroes) || want.Summary.TotalGames != got.Summary.TotalGames {
		t.Fatalf("shapes disagree: want=%+v got=%+v", want.Summary, got.Summary)
	}
	for idx := range want.Heroes {
		if want.Heroes[idx] != got.Heroes[idx] {
			t.Fatalf("hero %d differs: want=%+v got=%+v", idx, want.Heroes[idx], got.Heroes[idx])
		}
	}
}

func TestMatchReconciler_IncompleteRecordsAreNotWritten(t *testing.T) {
	t.Parallel()

	writer := matchmock.NewWriter(t)
	reconciler := NewMatchReconciler(writer, nil)

	cases := []struct {
		name   string
		series testSeries
	}{
		{name: "missing team name", series: testSeries{team1: "A", team2: "  ", date: "2024-01-01"}},
		{name: "missing date", series: testSeries{team1: "A", team2: "B"}},
		{name: "unparseable date", series: testSeries{team1: "A", team2: "B", date: "soon"}},
	}
	for _, tc := range cases {
		_, err := reconciler.Reconcile(context.Background(), tc.series.raw(), testTournament)
		if !errors.Is(err, ErrIncompleteRecord) {
			t.Fatalf("%s: expected ErrIncompleteRecord, got %v", tc.name, err)
		}
	}
	writer.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestMatchReconciler_BuildNormalizesAndDedupes(t *testing.T) {
	t.Parallel()

	normalizer, err := team.NewNormalizer(map[string]string{"Old A": "A"})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	reconciler := NewMatchReconciler(matchmock.NewWriter(t), normalizer)

	series := referenceSeries()
	series.team1 = "  Old A "
	series.games = series.games[:1]
	series.games[0].bans1 = []string{"X", "X"}
	series.games[0].side1 = "Green"

	rec, err := reconciler.Build(series.raw(), testTournament)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec.Team1 != "A" {
		t.Fatalf("team name not normalized: %q", rec.Team1)
	}
	if rec.WinnerSlot != 1 || rec.Stage != "Regular Season" {
		t.Fatalf("unexpected winner/stage: %+v", rec)
	}

	var bansX int
	for _, action := range rec.Actions {
		if action.HeroName == "X" && action.Type == match.ActionBan {
			bansX++
		}
		if action.Type == match.ActionPick && action.TeamSlot == 1 && action.Side != match.SideUnknown {
			t.Fatalf("unknown side value must map to unknown, got %q", action.Side)
		}
		if action.Type == match.ActionBan && (action.IsWin != nil || action.Side != match.SideUnknown) {
			t.Fatalf("ban carries pick fields: %+v", action)
		}
	}
	if bansX != 1 {
		t.Fatalf("duplicate ban not removed, got %d", bansX)
	}
}

func TestMatchReconciler_WriterErrorPropagates(t *testing.T) {
	t.Parallel()

	writer := matchmock.NewWriter(t)
	writer.
		On("Reconcile", mock.Anything, mock.MatchedBy(func(rec match.Reconciliation) bool { return rec.Team1 == "A" })).
		Return(match.Match{}, errors.New("tx aborted")).
		Once()

	reconciler := NewMatchReconciler(writer, nil)
	if _, err := reconciler.Reconcile(context.Background(), referenceSeries().raw(), testTournament); err == nil {
		t.Fatalf("expected writer error")
	}
}
