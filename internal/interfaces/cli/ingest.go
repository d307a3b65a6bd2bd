package cli

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newSeedCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Register the tournaments of a registry file and ingest their matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.LoadRegistry(file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no tournaments found in %s", file)
			}

			return rt.withServices(cmd, func(services *app.Services) error {
				result, err := services.Ingestion.SeedTournaments(cmd.Context(), entries)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Registered %d tournament(s), %d invalid entr(ies) skipped, %d failed\n\n", len(result.Registered), result.Invalid, result.Failed)
				writeUpdateTable(out, result.Refresh.Items)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "tournaments.json", "tournament registry file")
	return cmd
}

func newRefreshCommand(rt *runtime) *cobra.Command {
	var (
		page       string
		tournament string
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refetch and reconcile one tournament page, or every tracked tournament",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page = strings.TrimSpace(page)
			if !all && page == "" {
				return fmt.Errorf("either --page or --all is required")
			}

			return rt.withServices(cmd, func(services *app.Services) error {
				var items []usecase.UpdateResult
				if all {
					result, err := services.Ingestion.RefreshAll(cmd.Context())
					if err != nil {
						return err
					}
					items = result.Items
				} else {
					result, err := services.Ingestion.ProcessUpdate(cmd.Context(), page, tournament)
					if err != nil {
						return err
					}
					items = []usecase.UpdateResult{result}
				}
				writeUpdateTable(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "upstream tournament page, e.g. MPL/Indonesia/Season_13")
	cmd.Flags().StringVar(&tournament, "tournament", "", "tournament display name (resolved from the page when empty)")
	cmd.Flags().BoolVar(&all, "all", false, "refresh every tracked tournament")
	return cmd
}
