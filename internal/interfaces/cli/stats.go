package cli

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	tournaments []string
	stages      []string
	teams       []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.tournaments, "tournament", nil, "tournament name (repeatable, comma-separated)")
	cmd.Flags().StringSliceVar(&f.stages, "stage", nil, "stage label (repeatable, comma-separated)")
	cmd.Flags().StringSliceVar(&f.teams, "team", nil, "team name; matches where either side is listed")
}

func (f *filterFlags) filter() herostats.Filter {
	return herostats.Filter{
		Tournaments: f.tournaments,
		Stages:      f.stages,
		Teams:       f.teams,
	}
}

func newStatsCommand(rt *runtime) *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Hero pick, ban and win rates over the filtered matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			return rt.withServices(cmd, func(services *app.Services) error {
				result, err := services.Stats.ComputeHeroStats(cmd.Context(), filters.filter())
				if err != nil {
					return err
				}
				writeHeroStats(cmd.OutOrStdout(), result, limit)
				return nil
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to print, 0 for all")
	return cmd
}

func newHeroCommand(rt *runtime) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "hero <name>",
		Short: "Per-team performance and opponent matchups of one hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withServices(cmd, func(services *app.Services) error {
				result, err := services.Stats.ComputeHeroDetail(cmd.Context(), args[0], filters.filter())
				if err != nil {
					return err
				}
				writeHeroDetail(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	filters.register(cmd)
	return cmd
}

func newTournamentsCommand(rt *runtime) *cobra.Command {
	var groupBy string
	cmd := &cobra.Command{
		Use:   "tournaments",
		Short: "List tracked tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withServices(cmd, func(services *app.Services) error {
				out := cmd.OutOrStdout()
				if strings.TrimSpace(groupBy) != "" {
					groups, err := services.Catalog.GroupTournaments(cmd.Context(), groupBy)
					if err != nil {
						return err
					}
					writeGroups(out, groups)
					return nil
				}

				items, err := services.Catalog.ListTournaments(cmd.Context())
				if err != nil {
					return err
				}
				writeTournaments(out, items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupBy, "group-by", "", "group names by split or region")
	return cmd
}

func newCountsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Row counts per stored table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withServices(cmd, func(services *app.Services) error {
				counts, err := services.Catalog.Counts(cmd.Context())
				if err != nil {
					return err
				}
				writeCounts(cmd.OutOrStdout(), counts)
				return nil
			})
		},
	}
}
