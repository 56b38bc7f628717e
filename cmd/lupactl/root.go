package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lupa-app/lupa/internal/config"
	"github.com/lupa-app/lupa/internal/database"
	"github.com/lupa-app/lupa/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const app = "lupactl"

// Actual version can be specified in build command.
var version = "unknown"

var (
	env string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "lupactl manages the Lupa database: migrations and question seeding",
		SilenceUsage:  true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "logging environment (development or production)")
	rootCmd.AddCommand(versionCmd)
}

// connect opens the pool from DATABASE_URL and a logger for env.
func connect(ctx context.Context) (*pgxpool.Pool, *zap.Logger, error) {
	log, err := logger.NewLogger(env)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	dbCfg, err := config.LoadDB()
	if err != nil {
		return nil, nil, err
	}
	pool, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, log, nil
}
