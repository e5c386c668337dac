package main

import (
	"github.com/fekuna/omnipos-warehouse-service/migrations"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()
		defer log.Sync()

		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.MigrateUp(db, migrations.FS); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()
		defer log.Sync()

		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.MigrateDown(db, migrations.FS, downSteps); err != nil {
			return err
		}
		log.Info("Migrations rolled back", zap.Int("steps", downSteps))
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
