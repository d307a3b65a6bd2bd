package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

func startTracing(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled")
		return noop
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Warn("uptrace enabled without UPTRACE_DSN, tracing stays off")
		return noop
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("mlbb.storage_driver", cfg.StorageDriver),
			attribute.String("mlbb.liquipedia_wiki", cfg.LiquipediaWiki),
		),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)
	return uptrace.Shutdown
}
