package main

import (
	"fmt"

	"github.com/pershin-daniil/followups/pkg/pgstore"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := migrate.Up
			if len(args) == 1 && args[0] == "down" {
				direction = migrate.Down
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			store, err := pgstore.NewStore(cmd.Context(), log, cfg.PgDSN)
			if err != nil {
				return err
			}
			defer store.Close()
			if err = store.Migrate(direction); err != nil {
				return fmt.Errorf("err migrating: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
