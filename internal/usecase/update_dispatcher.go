package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	ProcessUpdateJobPath = "/v1/internal/jobs/process-update"

	defaultLocalUpdateTimeout = 10 * time.Minute
)

// UpdateJob asks for one tournament page to be refetched and reconciled.
type UpdateJob struct {
	JobID          string `json:"job_id,omitempty"`
	Page           string `json:"page" validate:"required"`
	TournamentName string `json:"tournament_name"`
	Event          string `json:"event,omitempty"`
}

// UpdateDispatcher hands an update job to asynchronous execution.
type UpdateDispatcher interface {
	DispatchUpdate(ctx context.Context, job UpdateJob) error
}

type updateRunner func(ctx context.Context, page, tournamentName string) (UpdateResult, error)

// LocalDispatcher runs jobs in-process on goroutines detached from the
// caller's cancellation.
type LocalDispatcher struct {
	run     updateRunner
	timeout time.Duration
	logger  *logging.Logger
	wg      conc.WaitGroup
}

func NewLocalDispatcher(ingestion *IngestionService, timeout time.Duration, logger *logging.Logger) *LocalDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultLocalUpdateTimeout
	}
	return &LocalDispatcher{
		run:     ingestion.ProcessUpdate,
		timeout: timeout,
		logger:  logger.Named("dispatcher"),
	}
}

func (d *LocalDispatcher) DispatchUpdate(ctx context.Context, job UpdateJob) error {
	if strings.TrimSpace(job.Page) == "" {
		return fmt.Errorf("%w: page is required", ErrInvalidInput)
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Go(func() {
		runCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		result, err := d.run(runCtx, job.Page, job.TournamentName)
		if err != nil {
			d.logger.ErrorContext(runCtx, "local update job failed", "job_id", job.JobID, "page", job.Page, "tournament", job.TournamentName, "error", err)
			return
		}
		d.logger.InfoContext(runCtx, "local update job finished",
			"job_id", job.JobID,
			"page", result.Page,
			"tournament", result.Tournament,
			"status", result.Status,
			"reconciled", result.Reconciled,
			"failed", result.Failed,
		)
	})
	return nil
}

// Wait blocks until in-flight jobs finish. Panics from jobs are logged.
func (d *LocalDispatcher) Wait() {
	if recovered := d.wg.WaitAndRecover(); recovered != nil {
		d.logger.Error("local update job panicked", "panic", recovered.String())
	}
}

type jobEnqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// QueueDispatcher publishes jobs to the external queue, which calls back the
// internal process-update endpoint.
type QueueDispatcher struct {
	enqueuer jobEnqueuer
	now      func() time.Time
}

func NewQueueDispatcher(enqueuer jobEnqueuer) *QueueDispatcher {
	return &QueueDispatcher{enqueuer: enqueuer, now: time.Now}
}

func (d *QueueDispatcher) DispatchUpdate(ctx context.Context, job UpdateJob) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueDispatcher.DispatchUpdate")
	defer span.End()

	if strings.TrimSpace(job.Page) == "" {
		return fmt.Errorf("%w: page is required", ErrInvalidInput)
	}
	dedupID := UpdateDeduplicationID(job.Page, job.Event, d.now())
	if err := d.enqueuer.Enqueue(ctx, ProcessUpdateJobPath, job, 0, dedupID); err != nil {
		return fmt.Errorf("%w: enqueue update job: %v", ErrDependencyUnavailable, err)
	}
	return nil
}

// UpdateDeduplicationID collapses repeated notifications for the same page
// and event within one minute.
func UpdateDeduplicationID(page, event string, at time.Time) string {
	event = slug.Make(event)
	if event == "" {
		event = "update"
	}
	return slug.Make(page) + "-" + event + "-" + strconv.FormatInt(at.Unix()/60, 10)
}
