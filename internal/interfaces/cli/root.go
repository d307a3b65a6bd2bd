package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/spf13/cobra"
)

// Opener builds the service layer for one command run.
type Opener func(ctx context.Context, logger *logging.Logger) (*app.Services, error)

type runtime struct {
	open    Opener
	logger  *logging.Logger
	verbose bool
}

// NewRootCommand assembles mlbbctl. Table output goes to the command's
// stdout; logs go to logOut.
func NewRootCommand(open Opener, logOut io.Writer) *cobra.Command {
	rt := &runtime{open: open}

	root := &cobra.Command{
		Use:           "mlbbctl",
		Short:         "MLBB esports match ingestion and hero statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := logging.LevelWarn
			if rt.verbose {
				level = logging.LevelDebug
			}
			rt.logger = logging.NewConsole(logOut, level)
		},
	}
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "log per-match ingestion outcomes")

	root.AddCommand(
		newSeedCommand(rt),
		newRefreshCommand(rt),
		newStatsCommand(rt),
		newHeroCommand(rt),
		newTournamentsCommand(rt),
		newCountsCommand(rt),
	)
	return root
}

// withServices opens the service layer, runs fn and closes it again.
func (rt *runtime) withServices(cmd *cobra.Command, fn func(*app.Services) error) error {
	services, err := rt.open(cmd.Context(), rt.logger)
	if err != nil {
		return fmt.Errorf("open services: %w", err)
	}
	defer func() { _ = services.Close() }()

	return fn(services)
}
