package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"credit-risk-lab/internal/config"
	"credit-risk-lab/internal/features"
	"credit-risk-lab/internal/pipeline"
	"credit-risk-lab/internal/storage"
	chstore "credit-risk-lab/internal/storage/clickhouse"
	"credit-risk-lab/internal/storage/memory"
	pgstore "credit-risk-lab/internal/storage/postgres"
	"credit-risk-lab/internal/woe"
)

const connectTimeout = 10 * time.Second

type allStores struct {
	transactions storage.TransactionStore
	features     storage.FeatureStore
	ivResults    storage.IVResultStore
	scoring      storage.ScoringStore
}

// createStores creates all required stores for the configured backend.
func createStores(ctx context.Context, c *config.Config) (*allStores, func(), error) {
	if c.Storage.Backend == config.BackendMemory {
		stores := &allStores{
			transactions: memory.NewTransactionStore(),
			features:     memory.NewFeatureStore(),
			ivResults:    memory.NewIVResultStore(),
			scoring:      memory.NewScoringStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, c.Storage.PostgresDSN,
		pgstore.WithMaxConns(c.Storage.PostgresMaxConns),
		pgstore.WithConnectTimeout(connectTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// ClickHouse
	chConn, err := chstore.NewConn(ctx, c.Storage.ClickhouseDSN,
		chstore.WithDialTimeout(connectTimeout),
		chstore.WithLZ4(),
	)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		// PostgreSQL stores (source data + scoring requests)
		transactions: pgstore.NewTransactionStore(pool),
		scoring:      pgstore.NewScoringStore(pool),

		// ClickHouse stores (analytics)
		features:  chstore.NewFeatureStore(chConn),
		ivResults: chstore.NewIVResultStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// newRunner wires the engineer and evaluator from config into a pipeline runner.
func newRunner(s *allStores) *pipeline.Runner {
	engineer := features.NewEngineer(logger.Logger, cfg.Features.Workers)
	evaluator := woe.NewEvaluator(
		woe.WithTarget(cfg.WoE.Target),
		woe.WithWorkers(cfg.WoE.Workers),
		woe.WithLogger(logger.Logger),
	)
	return pipeline.NewRunner(s.transactions, s.features, s.ivResults, engineer, evaluator).
		WithLogger(logger.Logger)
}

// openInput opens path for reading; "-" reads stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// writeOutput passes path (or stdout when empty) to write. The file only
// appears at path once write succeeds; a failed write leaves nothing behind.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := f.Name()

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
