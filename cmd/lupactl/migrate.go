package main

import (
	"github.com/lupa-app/lupa/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, log, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer log.Sync()

		applied, err := database.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			log.Sugar().Info("database is up to date")
			return nil
		}
		log.Sugar().Infow("migrations applied", "files", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
