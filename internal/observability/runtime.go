package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

// Runtime owns process-wide telemetry: tracing export, continuous profiling
// and the pprof listener. Each part is a no-op when disabled.
type Runtime struct {
	shutdownTracing func(context.Context) error
	stopProfiling   func() error
	pprof           *http.Server
	logger          *logging.Logger
}

func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{
		shutdownTracing: func(context.Context) error { return nil },
		stopProfiling:   func() error { return nil },
		logger:          logger.Named("observability"),
	}

	rt.shutdownTracing = startTracing(cfg, rt.logger)

	stop, err := startProfiling(cfg, rt.logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.stopProfiling = stop

	srv, err := startPprofServer(cfg, rt.logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.pprof = srv

	return rt, nil
}

// Shutdown stops pprof first and flushes spans last so the shutdown itself
// is still traced.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if r.pprof != nil {
		if err := r.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		r.logger.Info("pprof server stopped")
	}
	if err := r.stopProfiling(); err != nil {
		errs = append(errs, err)
	}
	if err := r.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
