package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"credit-risk-lab/internal/storage/migrations"
	pgstore "credit-risk-lab/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	var postgresOnly, clickhouseOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL and ClickHouse schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if postgresOnly && clickhouseOnly {
				return errors.New("--postgres-only and --clickhouse-only are mutually exclusive")
			}

			if !clickhouseOnly {
				if cfg.Storage.PostgresDSN == "" {
					return errors.New("storage.postgres_dsn is not set")
				}
				pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
				if err != nil {
					return fmt.Errorf("connect to postgres: %w", err)
				}
				err = migrations.RunPostgresMigrations(ctx, pool)
				pool.Close()
				if err != nil {
					return err
				}
				logger.Info("postgres migrations applied")
			}

			if !postgresOnly {
				if cfg.Storage.ClickhouseDSN == "" {
					return errors.New("storage.clickhouse_dsn is not set")
				}
				conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
				if err != nil {
					return err
				}
				conn.Close()
				logger.Info("clickhouse migrations applied")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&postgresOnly, "postgres-only", false, "only migrate PostgreSQL")
	cmd.Flags().BoolVar(&clickhouseOnly, "clickhouse-only", false, "only migrate ClickHouse")

	return cmd
}
