package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

// RefreshFunc re-ingests every tracked tournament.
type RefreshFunc func(ctx context.Context) error

type RefreshConfig struct {
	Interval time.Duration
	// Timeout bounds one run; defaults to the interval.
	Timeout        time.Duration
	RunImmediately bool
}

// RefreshScheduler runs a periodic refresh. A run still in progress when the
// next tick fires causes that tick to be skipped.
type RefreshScheduler struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger
}

func NewRefreshScheduler(cfg RefreshConfig, refresh RefreshFunc, logger *logging.Logger) (*RefreshScheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")
	if refresh == nil {
		return nil, fmt.Errorf("refresh func is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be > 0")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = cfg.Interval
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	options := []gocron.JobOption{
		gocron.WithName("refresh-all"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if cfg.RunImmediately {
		options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			startedAt := time.Now()
			if err := refresh(ctx); err != nil {
				logger.Error("scheduled refresh failed", "error", err, "duration_ms", time.Since(startedAt).Milliseconds())
				return
			}
			logger.Info("scheduled refresh finished", "duration_ms", time.Since(startedAt).Milliseconds())
		}),
		options...,
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register refresh job: %w", err)
	}

	return &RefreshScheduler{scheduler: s, logger: logger}, nil
}

func (s *RefreshScheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("refresh scheduler started")
}

// Shutdown waits for a running refresh to return.
func (s *RefreshScheduler) Shutdown() error {
	if s == nil {
		return nil
	}
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("refresh scheduler stopped")
	return nil
}
