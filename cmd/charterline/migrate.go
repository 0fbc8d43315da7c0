package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charterline/internal/platform/config"
	"charterline/internal/platform/postgres"
	"charterline/internal/platform/sqlite"
)

func migrateCmd(c *cli) *cobra.Command {
	var (
		driver string
		dsn    string
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the sqlite or postgres driver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if driver == "" {
				driver = c.cfg.Storage.Driver
			}

			switch driver {
			case config.DriverSQLite:
				path := dsn
				if path == "" {
					path = c.cfg.Storage.SQLitePath
				}
				db, err := sqlite.OpenAndMigrate(ctx, path)
				if err != nil {
					return err
				}
				defer db.Close()
				c.log.Info("sqlite migrated", "path", path)

			case config.DriverPostgres:
				pgCfg := postgres.Config{
					URL:             c.cfg.Postgres.URL,
					MaxOpenConns:    c.cfg.Postgres.MaxOpenConns,
					MaxIdleConns:    c.cfg.Postgres.MaxIdleConns,
					ConnMaxLifetime: c.cfg.Postgres.ConnMaxLifetime,
				}
				if dsn != "" {
					pgCfg.URL = dsn
				}
				db, err := postgres.Open(ctx, pgCfg)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := postgres.Migrate(ctx, db); err != nil {
					return err
				}
				c.log.Info("postgres migrated")

			default:
				return fmt.Errorf("driver %q has no migrations (sqlite, postgres)", driver)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s migrations applied\n", driver)
			return err
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "sqlite or postgres (default: storage.driver)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "sqlite path or postgres URL (default: from config)")
	return cmd
}
