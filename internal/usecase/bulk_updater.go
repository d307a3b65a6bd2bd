package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

// BulkResult counts the outcome of one batch. Failures never abort the batch.
type BulkResult struct {
	Total      int   `json:"total"`
	Reconciled int   `json:"reconciled"`
	Skipped    int   `json:"skipped"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
}

type BulkUpdater struct {
	reconciler *MatchReconciler
	logger     *logging.Logger
}

func NewBulkUpdater(reconciler *MatchReconciler, logger *logging.Logger) *BulkUpdater {
	if logger == nil {
		logger = logging.Default()
	}
	return &BulkUpdater{
		reconciler: reconciler,
		logger:     logger.Named("bulk_updater"),
	}
}

// Run reconciles every record in order, logging each outcome.
func (u *BulkUpdater) Run(ctx context.Context, matches []rawmatch.Match, tournamentName, region, split string) BulkResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.BulkUpdater.Run")
	defer span.End()

	start := time.Now()
	tc := TournamentContext{Name: tournamentName, Region: region, Split: split}
	result := BulkResult{Total: len(matches)}

	for idx := range matches {
		if err := ctx.Err(); err != nil {
			u.logger.WarnContext(ctx, "bulk update interrupted",
				"tournament", tournamentName,
				"processed", idx,
				"error", err,
			)
			result.Failed += len(matches) - idx
			break
		}

		raw := matches[idx]
		item, err := u.reconciler.Reconcile(ctx, raw, tc)
		switch {
		case err == nil:
			result.Reconciled++
			u.logger.InfoContext(ctx, "match reconciled",
				"tournament", tournamentName,
				"match_id", item.ID,
				"team1", raw.Opponents[0].Name,
				"team2", raw.Opponents[1].Name,
				"date", raw.Date,
			)
		case errors.Is(err, ErrIncompleteRecord):
			result.Skipped++
			u.logger.WarnContext(ctx, "match skipped",
				"tournament", tournamentName,
				"page_id", raw.PageID,
				"match2id", raw.MatchID,
				"reason", err.Error(),
			)
		default:
			result.Failed++
			u.logger.ErrorContext(ctx, "match reconciliation failed",
				"tournament", tournamentName,
				"page_id", raw.PageID,
				"match2id", raw.MatchID,
				"date", raw.Date,
				"error", err,
			)
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	u.logger.InfoContext(ctx, "bulk update finished",
		"tournament", tournamentName,
		"total", result.Total,
		"reconciled", result.Reconciled,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", result.DurationMs,
	)
	return result
}
