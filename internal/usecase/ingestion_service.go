package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// MatchSource is the upstream match data provider.
type MatchSource interface {
	FetchTournamentMatches(ctx context.Context, page string) ([]rawmatch.Match, error)
}

const (
	UpdateStatusProcessed   = "processed"
	UpdateStatusSkipped     = "skipped"
	UpdateStatusNoMatches   = "no_matches"
	UpdateStatusFetchFailed = "fetch_failed"

	defaultRefreshWorkers = 4
)

// UpdateResult reports one processUpdate run.
type UpdateResult struct {
	Page       string `json:"page"`
	Tournament string `json:"tournament"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	BulkResult
}

type RefreshResult struct {
	TournamentCount int            `json:"tournament_count"`
	WorkerCount     int            `json:"worker_count"`
	Reconciled      int            `json:"reconciled"`
	Failed          int            `json:"failed"`
	Items           []UpdateResult `json:"items"`
}

type SeedResult struct {
	Registered []tournament.Tournament `json:"registered"`
	Invalid    int                     `json:"invalid"`
	Failed     int                     `json:"failed"`
	Refresh    RefreshResult           `json:"refresh"`
}

type IngestionService struct {
	tournaments tournament.Repository
	source      MatchSource
	bulk        *BulkUpdater
	logger      *logging.Logger
	maxWorkers  int
	onChange    []func(context.Context)
}

func NewIngestionService(
	tournaments tournament.Repository,
	source MatchSource,
	bulk *BulkUpdater,
	maxWorkers int,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultRefreshWorkers
	}
	return &IngestionService{
		tournaments: tournaments,
		source:      source,
		bulk:        bulk,
		logger:      logger.Named("ingestion"),
		maxWorkers:  maxWorkers,
	}
}

// ProcessUpdate refetches every match of a tracked tournament page and
// reconciles them. Unknown tournaments and upstream failures are logged and
// reported in the result, never returned as errors.
func (s *IngestionService) ProcessUpdate(ctx context.Context, page, tournamentName string) (UpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ProcessUpdate",
		attribute.String("mlbb.page", page),
		attribute.String("mlbb.tournament", tournamentName),
	)
	defer span.End()

	page = strings.TrimSpace(page)
	tournamentName = strings.TrimSpace(tournamentName)
	if page == "" {
		return UpdateResult{}, fmt.Errorf("%w: page is required", ErrInvalidInput)
	}
	if tournamentName == "" {
		resolved, err := s.ResolveTournamentName(ctx, page)
		if err != nil {
			return UpdateResult{}, err
		}
		tournamentName = resolved
	}

	result := UpdateResult{Page: page, Tournament: tournamentName}

	item, exists, err := s.tournaments.GetByName(ctx, tournamentName)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("get tournament %q: %w", tournamentName, err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "update for unknown tournament skipped", "page", page, "tournament", tournamentName)
		result.Status = UpdateStatusSkipped
		result.Message = "unknown tournament"
		return result, nil
	}

	matches, err := s.source.FetchTournamentMatches(ctx, page)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch tournament matches failed", "page", page, "tournament", tournamentName, "error", err)
		recordSpanError(span, err)
		result.Status = UpdateStatusFetchFailed
		result.Message = err.Error()
		return result, nil
	}
	if len(matches) == 0 {
		s.logger.InfoContext(ctx, "no match data for updated page", "page", page, "tournament", tournamentName)
		result.Status = UpdateStatusNoMatches
		return result, nil
	}

	result.BulkResult = s.bulk.Run(ctx, matches, item.Name, item.Region, item.Split)
	result.Status = UpdateStatusProcessed
	span.SetAttributes(
		attribute.Int("mlbb.reconciled", result.Reconciled),
		attribute.Int("mlbb.failed", result.Failed),
	)
	if result.Reconciled > 0 {
		for _, fn := range s.onChange {
			fn(ctx)
		}
	}
	return result, nil
}

// OnMatchesChanged registers fn to run after an update reconciled at least
// one match. Register before serving traffic.
func (s *IngestionService) OnMatchesChanged(fn func(context.Context)) {
	if fn == nil {
		return
	}
	s.onChange = append(s.onChange, fn)
}

// ResolveTournamentName maps an upstream page to the registered tournament,
// falling back to a name derived from the page path.
func (s *IngestionService) ResolveTournamentName(ctx context.Context, page string) (string, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return "", fmt.Errorf("%w: page is required", ErrInvalidInput)
	}

	item, exists, err := s.tournaments.GetBySourcePage(ctx, page)
	if err != nil {
		return "", fmt.Errorf("get tournament by source page %q: %w", page, err)
	}
	if exists {
		return item.Name, nil
	}
	return tournament.DisplayNameFromPage(page), nil
}

// RefreshAll reprocesses every tournament that has an upstream page.
func (s *IngestionService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.RefreshAll")
	defer span.End()

	items, err := s.tournaments.List(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list tournaments: %w", err)
	}
	return s.refresh(ctx, items)
}

// SeedTournaments registers the tracked tournaments, then refreshes them.
// Invalid entries are skipped with a warning.
func (s *IngestionService) SeedTournaments(ctx context.Context, entries []tournament.RegistryEntry) (SeedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SeedTournaments")
	defer span.End()

	var result SeedResult
	for idx, entry := range entries {
		if err := entry.Validate(); err != nil {
			result.Invalid++
			s.logger.WarnContext(ctx, "invalid tournament registry entry skipped", "index", idx, "error", err)
			continue
		}
		item, err := s.tournaments.Register(ctx, entry.Tournament())
		if err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "register tournament failed",
				"index", idx,
				"tournament", entry.DisplayName,
				"page", entry.LiquipediaName,
				"error", err,
			)
			continue
		}
		result.Registered = append(result.Registered, item)
	}

	refresh, err := s.refresh(ctx, result.Registered)
	if err != nil {
		return SeedResult{}, err
	}
	result.Refresh = refresh
	return result, nil
}

func (s *IngestionService) refresh(ctx context.Context, items []tournament.Tournament) (RefreshResult, error) {
	targets := make([]tournament.Tournament, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.SourcePage) == "" {
			continue
		}
		targets = append(targets, item)
	}

	result := RefreshResult{TournamentCount: len(targets)}
	if len(targets) == 0 {
		return result, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(targets) {
		workerCount = len(targets)
	}
	result.WorkerCount = workerCount

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	rows := make(chan UpdateResult, len(targets))
	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, err := s.ProcessUpdate(ctx, target.SourcePage, target.Name)
			if err != nil {
				row = UpdateResult{
					Page:       target.SourcePage,
					Tournament: target.Name,
					Status:     UpdateStatusSkipped,
					Message:    err.Error(),
				}
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Reconciled += row.Reconciled
		result.Failed += row.Failed
		result.Items = append(result.Items, row)
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Tournament < result.Items[j].Tournament
	})

	s.logger.InfoContext(ctx, "tournament refresh finished",
		"tournaments", result.TournamentCount,
		"workers", result.WorkerCount,
		"reconciled", result.Reconciled,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
