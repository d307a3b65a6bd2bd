package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/team"
)

// TournamentContext is the tournament a batch of raw matches belongs to.
// Region and split only apply when the tournament row is created.
type TournamentContext struct {
	Name   string
	Region string
	Split  string
}

type MatchReconciler struct {
	writer     match.Writer
	normalizer *team.Normalizer
}

func NewMatchReconciler(writer match.Writer, normalizer *team.Normalizer) *MatchReconciler {
	if normalizer == nil {
		normalizer = team.DefaultNormalizer()
	}
	return &MatchReconciler{
		writer:     writer,
		normalizer: normalizer,
	}
}

// Reconcile writes one raw match as a single atomic unit. Records without two
// named opponents or a usable date are rejected with ErrIncompleteRecord.
func (r *MatchReconciler) Reconcile(ctx context.Context, raw rawmatch.Match, tc TournamentContext) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.Reconcile")
	defer span.End()

	rec, err := r.Build(raw, tc)
	if err != nil {
		return match.Match{}, err
	}

	item, err := r.writer.Reconcile(ctx, rec)
	if err != nil {
		return match.Match{}, fmt.Errorf("reconcile match %s: %w", rec.LockKey(), err)
	}
	return item, nil
}

// Build derives the reconciliation for a raw match without writing it.
func (r *MatchReconciler) Build(raw rawmatch.Match, tc TournamentContext) (match.Reconciliation, error) {
	tc.Name = strings.TrimSpace(tc.Name)
	if tc.Name == "" {
		return match.Reconciliation{}, fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	}

	info := raw.Enrich(tc.Name, r.normalizer.Normalize)
	if len(raw.Opponents) < 2 {
		return match.Reconciliation{}, fmt.Errorf("%w: expected two opponents, got %d", ErrIncompleteRecord, len(raw.Opponents))
	}
	team1, team2 := raw.Opponents[0].Name, raw.Opponents[1].Name
	if team1 == "" || team2 == "" {
		return match.Reconciliation{}, fmt.Errorf("%w: opponent name is missing", ErrIncompleteRecord)
	}
	matchDate, ok := raw.MatchDate()
	if !ok {
		return match.Reconciliation{}, fmt.Errorf("%w: match date %q is missing or unparseable", ErrIncompleteRecord, raw.Date)
	}

	details, err := raw.Payload()
	if err != nil {
		return match.Reconciliation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rec := match.Reconciliation{
		TournamentName: tc.Name,
		Region:         strings.TrimSpace(tc.Region),
		Split:          strings.TrimSpace(tc.Split),
		Team1:          team1,
		Team2:          team2,
		ExternalID:     raw.PageID,
		WinnerSlot:     raw.WinnerSlot(),
		Team1Score:     raw.TeamScore(1),
		Team2Score:     raw.TeamScore(2),
		MatchDate:      matchDate,
		Stage:          info.Label,
		StagePriority:  info.Priority,
		Details:        details,
		Actions:        match.DedupeActions(buildActions(raw.Games)),
	}
	if err := rec.Validate(); err != nil {
		return match.Reconciliation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rec, nil
}

func buildActions(games []rawmatch.Game) []match.HeroAction {
	var out []match.HeroAction
	for _, game := range games {
		for idx, bans := range game.Bans {
			for _, hero := range bans {
				hero = strings.TrimSpace(hero)
				if hero == "" {
					continue
				}
				out = append(out, match.HeroAction{
					HeroName:   hero,
					TeamSlot:   idx + 1,
					Type:       match.ActionBan,
					GameNumber: game.Number,
				})
			}
		}
		for _, pick := range game.Picks {
			hero := strings.TrimSpace(pick.Hero)
			if hero == "" {
				continue
			}
			out = append(out, match.HeroAction{
				HeroName:   hero,
				TeamSlot:   pick.Team,
				Type:       match.ActionPick,
				GameNumber: game.Number,
				IsWin:      pick.IsWin,
				Side:       match.ParseSide(pick.Side),
			})
		}
	}
	return out
}
