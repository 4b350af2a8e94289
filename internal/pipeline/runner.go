// Package pipeline runs feature engineering and WoE/IV evaluation against the stores.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"credit-risk-lab/internal/binning"
	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/features"
	"credit-risk-lab/internal/logging"
	"credit-risk-lab/internal/observability"
	"credit-risk-lab/internal/storage"
	"credit-risk-lab/internal/woe"
)

// Pipeline phases, used as metric labels.
const (
	PhaseIngest   = "ingest"
	PhaseEngineer = "engineer"
	PhaseEvaluate = "evaluate"
)

// Runner orchestrates engineering and evaluation runs. Each run gets a fresh run ID.
type Runner struct {
	transactions storage.TransactionStore
	features     storage.FeatureStore
	ivResults    storage.IVResultStore
	engineer     *features.Engineer
	evaluator    *woe.Evaluator
	metrics      *observability.Metrics
	logger       *slog.Logger
	newRunID     func() string
}

// EngineerResult is the output of one engineering run.
type EngineerResult struct {
	RunID     string
	Records   []*domain.FeatureRecord
	Customers int
}

// NewRunner creates a runner over the given stores.
func NewRunner(
	transactions storage.TransactionStore,
	featureStore storage.FeatureStore,
	ivResults storage.IVResultStore,
	engineer *features.Engineer,
	evaluator *woe.Evaluator,
) *Runner {
	if engineer == nil {
		engineer = features.NewEngineer(nil, 0)
	}
	if evaluator == nil {
		evaluator = woe.NewEvaluator()
	}
	return &Runner{
		transactions: transactions,
		features:     featureStore,
		ivResults:    ivResults,
		engineer:     engineer,
		evaluator:    evaluator,
		logger:       logging.Discard(),
		newRunID:     uuid.NewString,
	}
}

// WithMetrics records run counters and durations.
func (r *Runner) WithMetrics(m *observability.Metrics) *Runner {
	r.metrics = m
	return r
}

// WithLogger sets the runner logger.
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// WithRunIDs sets a custom run ID generator for deterministic output.
func (r *Runner) WithRunIDs(gen func() string) *Runner {
	r.newRunID = gen
	return r
}

// Ingest stores raw transactions. The batch is rejected whole on any duplicate.
func (r *Runner) Ingest(ctx context.Context, txs []*domain.Transaction) error {
	start := time.Now()
	if err := r.transactions.InsertBulk(ctx, txs); err != nil {
		r.metrics.RecordPipelineRun(PhaseIngest, observability.StatusFailure, time.Since(start))
		return fmt.Errorf("ingest transactions: %w", err)
	}
	r.metrics.RecordPipelineRun(PhaseIngest, observability.StatusSuccess, time.Since(start))
	r.logger.Info("transactions ingested", "count", len(txs))
	return nil
}

// Engineer loads all stored transactions, derives features and stores them
// under a new run ID. Nothing is stored when engineering fails.
func (r *Runner) Engineer(ctx context.Context) (*EngineerResult, error) {
	start := time.Now()
	runID := r.newRunID()
	logger := r.logger.With("run_id", runID, "phase", PhaseEngineer)
	logger.Info("run started")

	res, err := r.engineerRun(ctx, runID)
	if err != nil {
		r.metrics.RecordEngineeringError(errorKind(err))
		r.metrics.RecordPipelineRun(PhaseEngineer, observability.StatusFailure, time.Since(start))
		logger.Error("run failed", "error", err)
		return nil, err
	}

	r.metrics.RecordEngineering(len(res.Records), res.Customers, len(res.Records))
	r.metrics.RecordPipelineRun(PhaseEngineer, observability.StatusSuccess, time.Since(start))
	logger.Info("run finished", "records", len(res.Records), "customers", res.Customers, "elapsed", time.Since(start))
	return res, nil
}

func (r *Runner) engineerRun(ctx context.Context, runID string) (*EngineerResult, error) {
	txs, err := r.transactions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	records, err := r.engineer.Engineer(txs)
	if err != nil {
		return nil, fmt.Errorf("engineer features: %w", err)
	}

	customers := make(map[string]struct{})
	for _, rec := range records {
		rec.RunID = runID
		customers[rec.CustomerID] = struct{}{}
	}

	if err := r.features.InsertBulk(ctx, runID, records); err != nil {
		return nil, fmt.Errorf("store features: %w", err)
	}

	return &EngineerResult{RunID: runID, Records: records, Customers: len(customers)}, nil
}

// Evaluate computes WoE/IV for a binned table and stores the report under a new run ID.
func (r *Runner) Evaluate(ctx context.Context, table *domain.BinnedTable) (*domain.IVReport, error) {
	start := time.Now()
	runID := r.newRunID()
	logger := r.logger.With("run_id", runID, "phase", PhaseEvaluate)
	logger.Info("run started", "columns", len(table.Columns), "rows", len(table.Rows))

	report, err := r.evaluateRun(ctx, runID, table)
	if err != nil {
		r.metrics.RecordPipelineRun(PhaseEvaluate, observability.StatusFailure, time.Since(start))
		logger.Error("run failed", "error", err)
		return nil, err
	}

	r.metrics.RecordPipelineRun(PhaseEvaluate, observability.StatusSuccess, time.Since(start))
	logger.Info("run finished", "features", len(report.Features), "warnings", len(report.Warnings))
	return report, nil
}

func (r *Runner) evaluateRun(ctx context.Context, runID string, table *domain.BinnedTable) (*domain.IVReport, error) {
	report, err := r.evaluator.ComputeIV(table)
	if err != nil {
		return nil, fmt.Errorf("compute iv: %w", err)
	}
	report.RunID = runID

	for _, f := range report.Features {
		r.metrics.RecordFeatureIV(f.Variable, f.IV, len(f.Bins) == 0)
	}

	if r.ivResults != nil {
		if err := r.ivResults.Insert(ctx, report); err != nil {
			return nil, fmt.Errorf("store iv report: %w", err)
		}
	}
	return report, nil
}

// BinAndEvaluate discretizes a raw labeled table with binner, then runs Evaluate.
func (r *Runner) BinAndEvaluate(ctx context.Context, table *domain.FeatureTable, binner binning.QuantileBinner) (*domain.IVReport, error) {
	binned, err := binner.Bin(table, r.evaluator.Target())
	if err != nil {
		r.metrics.RecordPipelineRun(PhaseEvaluate, observability.StatusFailure, 0)
		return nil, fmt.Errorf("bin table: %w", err)
	}
	return r.Evaluate(ctx, binned)
}

// errorKind labels an engineering failure for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, features.ErrMissingTimestamp):
		return "missing_timestamp"
	case errors.Is(err, features.ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, storage.ErrDuplicateKey):
		return "duplicate_key"
	default:
		return "other"
	}
}
