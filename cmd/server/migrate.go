package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"harbor-control/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()
		return nil
	},
}

var rollbackSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		if rollbackSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		sqlDB, err := a.db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		return database.RollbackMigrations(sqlDB, a.cfg.Database.Driver, rollbackSteps, a.logger)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
