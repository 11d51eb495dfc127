package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive-expired",
	Short: "Archive pending deletions older than lifecycle.auto_archive_after",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := a.svc.Lifecycle.ArchiveExpired(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%d candidates\n", summary.Candidates)
		color.Green("archived %d", summary.Archived)
		if summary.Skipped > 0 {
			color.Yellow("skipped %d already handled elsewhere", summary.Skipped)
		}
		if len(summary.Failed) > 0 {
			color.Red("failed %d: %v", len(summary.Failed), summary.Failed)
			return fmt.Errorf("%d boats could not be archived", len(summary.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
