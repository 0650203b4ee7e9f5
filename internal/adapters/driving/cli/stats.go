package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsRefresh bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate document statistics",
	Long: `Shows the materialized per-category and per-location aggregates.
Use --refresh to recompute the projections first.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsRefresh, "refresh", false, "recompute the projections before showing them")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ctx := context.Background()

	if statsRefresh {
		if err := statsService.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh stats: %w", err)
		}
	}

	categories, err := statsService.ByCategory(ctx)
	if err != nil {
		return fmt.Errorf("failed to get category stats: %w", err)
	}

	locations, err := statsService.ByLocation(ctx)
	if err != nil {
		return fmt.Errorf("failed to get location stats: %w", err)
	}

	if len(categories) == 0 && len(locations) == 0 {
		cmd.Println("No statistics available. Ingest documents and run with --refresh.")
		return nil
	}

	if len(categories) > 0 {
		cmd.Println("By category:")
		cmd.Println()
		for _, c := range categories {
			cmd.Printf("  %-14s %3d docs, %4d chunks", c.Category, c.DocumentCount, c.ChunkCount)
			if c.TotalAmount > 0 {
				cmd.Printf(", total %.0f CHF", c.TotalAmount)
			}
			cmd.Printf(" (completeness %.0f%%)\n", c.AvgCompleteness)
		}
		cmd.Println()
	}

	if len(locations) > 0 {
		cmd.Println("By location:")
		cmd.Println()
		for _, l := range locations {
			cmd.Printf("  %-20s %3d docs", fmt.Sprintf("%s (%s)", l.Commune, l.Canton), l.DocumentCount)
			if l.AvgAmount > 0 {
				cmd.Printf(", avg %.0f CHF", l.AvgAmount)
			}
			cmd.Println()
		}
	}

	return nil
}
