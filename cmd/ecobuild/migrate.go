package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var (
		down   bool
		status bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Long: `Apply all pending database migrations.

With --down the most recently applied migration is rolled back instead.
With --status nothing is changed and the applied and pending migrations
are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.Open(ctx, database.Config{
				Path:        cfg.Database.Path,
				WALMode:     cfg.Database.WALMode,
				BusyTimeout: cfg.Database.BusyTimeout,
			})
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close() //nolint:errcheck // read-mostly command

			switch {
			case status:
			case down:
				if err := db.MigrateDown(ctx); err != nil {
					return fmt.Errorf("rolling back migration: %w", err)
				}
				log.Info("migration rolled back", "path", cfg.Database.Path)
			default:
				if err := db.Migrate(ctx); err != nil {
					return fmt.Errorf("running migrations: %w", err)
				}
				log.Info("database migrations complete", "path", cfg.Database.Path)
			}

			applied, pending, err := db.GetMigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("reading migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, m := range applied {
				fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range pending {
				fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
			}
			fmt.Fprintf(out, "%d applied, %d pending\n", len(applied), len(pending))
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	cmd.Flags().BoolVar(&status, "status", false, "only list migration status")
	cmd.MarkFlagsMutuallyExclusive("down", "status")

	return cmd
}
