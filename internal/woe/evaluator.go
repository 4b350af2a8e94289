// Package woe measures the discriminatory power of binned features with
// Weight of Evidence and Information Value.
package woe

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/logging"
)

// Evaluator computes IV reports for binned tables.
type Evaluator struct {
	target  string
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTarget overrides the target column name.
func WithTarget(name string) Option {
	return func(e *Evaluator) { e.target = name }
}

// WithWorkers bounds the number of feature columns evaluated concurrently.
func WithWorkers(n int) Option {
	return func(e *Evaluator) { e.workers = n }
}

// WithLogger sets the logger that receives warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator creates an Evaluator with target domain.DefaultTargetColumn.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		target:  domain.DefaultTargetColumn,
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.target == "" {
		e.target = domain.DefaultTargetColumn
	}
	return e
}

// Target returns the configured target column name.
func (e *Evaluator) Target() string { return e.target }

// ComputeIV evaluates every column except the target. Features and Summary
// follow the input column order. The table must not be mutated during the call.
func (e *Evaluator) ComputeIV(table *domain.BinnedTable) (*domain.IVReport, error) {
	targetIdx := table.ColumnIndex(e.target)
	if targetIdx < 0 {
		err := &SchemaError{Column: e.target}
		e.logger.Error("woe evaluation failed", "error", err)
		return nil, err
	}

	var featureIdx []int
	for i, c := range table.Columns {
		if c == e.target {
			continue
		}
		featureIdx = append(featureIdx, i)
	}

	results := make([]domain.FeatureIV, len(featureIdx))
	var g errgroup.Group
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i, col := range featureIdx {
		g.Go(func() error {
			results[i] = CalculateWoEIV(table, col, targetIdx)
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.IVReport{
		Target:      e.target,
		Features:    results,
		Summary:     make([]domain.IVSummaryRow, 0, len(results)),
		GeneratedAt: e.now().UTC(),
	}
	for _, f := range results {
		if len(f.Bins) == 0 {
			w := EmptyFeatureWarning{Column: f.Variable}
			e.logger.Warn("empty feature", "column", f.Variable)
			report.Warnings = append(report.Warnings, w.String())
		}
		report.Summary = append(report.Summary, domain.IVSummaryRow{Variable: f.Variable, IV: f.IV})
	}

	e.logger.Info("woe evaluation complete", "features", len(results), "rows", len(table.Rows))
	return report, nil
}

// ComputeIV evaluates table against target with default settings.
func ComputeIV(table *domain.BinnedTable, target string) (*domain.IVReport, error) {
	return NewEvaluator(WithTarget(target)).ComputeIV(table)
}
