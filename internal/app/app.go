package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/mlbb-analytics/external/jobqueue"
	"github.com/riskibarqy/mlbb-analytics/external/liquipedia"
	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/hero"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/stage"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/team"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/scheduler"
	"github.com/riskibarqy/mlbb-analytics/internal/interfaces/httpapi"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

type repositories struct {
	tournaments tournament.Repository
	teams       team.Repository
	heroes      hero.Repository
	stages      stage.Repository
	matches     match.Repository
	stats       herostats.Repository
}

// Services holds the usecase layer shared by the API server and the CLI.
type Services struct {
	Ingestion *usecase.IngestionService
	Stats     *usecase.HeroStatsService
	Catalog   *usecase.CatalogService

	db *sqlx.DB
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	normalizer, err := cfg.TeamNormalizer()
	if err != nil {
		return nil, fmt.Errorf("build team normalizer: %w", err)
	}

	var (
		repos repositories
		db    *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		repos, err = newMemoryRepositories(ctx, cfg, logger)
	default:
		db, err = openDB(ctx, cfg)
		if err == nil {
			repos = newPostgresRepositories(db)
		}
	}
	if err != nil {
		return nil, err
	}

	source := liquipedia.NewClient(liquipedia.ClientConfig{
		BaseURL:        cfg.LiquipediaBaseURL,
		Wiki:           cfg.LiquipediaWiki,
		APIKey:         cfg.LiquipediaAPIKey,
		UserAgent:      cfg.LiquipediaUserAgent,
		Timeout:        cfg.LiquipediaTimeout,
		MaxRetries:     cfg.LiquipediaMaxRetries,
		PageSize:       cfg.LiquipediaPageSize,
		Logger:         logger,
		CircuitBreaker: cfg.LiquipediaCircuit,
	})

	reconciler := usecase.NewMatchReconciler(repos.matches, normalizer)
	bulk := usecase.NewBulkUpdater(reconciler, logger)

	ingestion := usecase.NewIngestionService(repos.tournaments, source, bulk, cfg.RefreshMaxWorkers, logger)
	stats := repos.stats
	if cfg.StatsCacheTTL > 0 {
		cached := cache.NewHeroStatsRepository(repos.stats, cfg.StatsCacheTTL)
		ingestion.OnMatchesChanged(cached.Invalidate)
		stats = cached
	}

	return &Services{
		Ingestion: ingestion,
		Stats:     usecase.NewHeroStatsService(stats),
		Catalog:   usecase.NewCatalogService(repos.tournaments, repos.teams, repos.stages, repos.heroes, repos.matches),
		db:        db,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// newMemoryRepositories registers the tracked tournaments up front, since the
// store starts empty on every boot.
func newMemoryRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	entries, err := LoadRegistry(cfg.TournamentsFile)
	if err != nil {
		return repositories{}, err
	}
	if len(entries) == 0 {
		entries = memory.DefaultRegistry()
	}

	store := memory.NewStore()
	tournaments := memory.NewTournamentRepository(store)
	registered, err := memory.SeedTournaments(ctx, tournaments, entries)
	if err != nil {
		if registered == 0 {
			return repositories{}, fmt.Errorf("seed memory tournaments: %w", err)
		}
		logger.Warn("some memory tournaments were not registered", "registered", registered, "error", err)
	}

	return repositories{
		tournaments: tournaments,
		teams:       memory.NewTeamRepository(store),
		heroes:      memory.NewHeroRepository(store),
		stages:      memory.NewStageRepository(store),
		matches:     memory.NewMatchRepository(store),
		stats:       memory.NewHeroStatsRepository(store),
	}, nil
}

// App is the API process: HTTP server plus background ingestion.
type App struct {
	Server *http.Server

	services  *Services
	local     *usecase.LocalDispatcher
	scheduler *scheduler.RefreshScheduler
	logger    *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		dispatcher usecase.UpdateDispatcher
		local      *usecase.LocalDispatcher
	)
	if cfg.QStashEnabled {
		dispatcher = usecase.NewQueueDispatcher(jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger))
	} else {
		local = usecase.NewLocalDispatcher(services.Ingestion, cfg.UpdateJobTimeout, logger)
		dispatcher = local
	}

	var refresh *scheduler.RefreshScheduler
	if cfg.RefreshEnabled {
		refresh, err = scheduler.NewRefreshScheduler(scheduler.RefreshConfig{
			Interval:       cfg.RefreshInterval,
			Timeout:        cfg.UpdateJobTimeout,
			RunImmediately: cfg.StorageDriver == config.StorageMemory,
		}, func(ctx context.Context) error {
			_, err := services.Ingestion.RefreshAll(ctx)
			return err
		}, logger)
		if err != nil {
			_ = services.Close()
			return nil, err
		}
	}

	handler := httpapi.NewHandler(
		services.Stats,
		services.Catalog,
		services.Ingestion,
		usecase.NewWebhookService(services.Ingestion, dispatcher, cfg.LiquipediaWiki, logger),
		logger,
	)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		WebhookSecret:      cfg.WebhookSecret,
	}, logger)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		services:  services,
		local:     local,
		scheduler: refresh,
		logger:    logger,
	}, nil
}

// StartBackground starts the refresh scheduler when enabled.
func (a *App) StartBackground() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

// Shutdown stops the HTTP server first, then drains background work.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.scheduler.Shutdown(); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.local != nil {
		a.local.Wait()
		a.logger.Info("pending update jobs drained")
	}
	if err := a.services.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close database: %w", err)
	}
	return firstErr
}
