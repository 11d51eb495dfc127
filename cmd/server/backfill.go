package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"harbor-control/internal/service"
)

var backfillBatch int

var backfillCmd = &cobra.Command{
	Use:   "backfill-occurred-at",
	Short: "Derive occurred_at and traffic_day for rows stored without them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := a.svc.Traffic.Backfill(cmd.Context(), backfillBatch)
		if err != nil {
			color.Red("backfill stopped after %d rows: %v", summary.Scanned, err)
			return err
		}

		color.Green("scanned %d, updated %d", summary.Scanned, summary.Updated)
		if summary.NoDate > 0 {
			color.Yellow("%d entries have no date and were left as they are", summary.NoDate)
		}
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVar(&backfillBatch, "batch", service.DefaultBackfillBatch, "rows per batch")
	rootCmd.AddCommand(backfillCmd)
}
