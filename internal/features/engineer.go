// Package features derives time fields and per-customer aggregates from raw transactions.
package features

import (
	"log/slog"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/logging"
)

// Engineer turns a transaction snapshot into a feature table.
type Engineer struct {
	logger  *slog.Logger
	workers int
}

// NewEngineer creates an Engineer. workers bounds concurrent group reductions
// (<= 0 means unbounded). A nil logger discards output.
func NewEngineer(logger *slog.Logger, workers int) *Engineer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engineer{logger: logger, workers: workers}
}

// Engineer runs EngineerFeatures and logs the outcome.
func (e *Engineer) Engineer(txs []*domain.Transaction) ([]*domain.FeatureRecord, error) {
	e.logger.Debug("engineering features", "transactions", len(txs))

	records, err := engineerFeatures(txs, e.workers)
	if err != nil {
		e.logger.Error("feature engineering failed", "error", err)
		return nil, err
	}

	e.logger.Info("features engineered", "rows", len(records))
	return records, nil
}

// EngineerFeatures extracts time fields, then aggregates by customer.
// Output has one record per input transaction in input order. Any error
// aborts the whole run.
func EngineerFeatures(txs []*domain.Transaction) ([]*domain.FeatureRecord, error) {
	return engineerFeatures(txs, 0)
}

func engineerFeatures(txs []*domain.Transaction, workers int) ([]*domain.FeatureRecord, error) {
	times, err := ExtractTimeFields(txs)
	if err != nil {
		return nil, err
	}

	aggs, err := AggregateByEntity(txs, workers)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.FeatureRecord, len(txs))
	for i, tx := range txs {
		out[i] = &domain.FeatureRecord{
			Transaction:              *tx,
			TransactionHour:          times[i].Hour,
			TransactionDay:           times[i].Day,
			TransactionMonth:         times[i].Month,
			TransactionYear:          times[i].Year,
			TotalTransactionAmount:   aggs[i].Total,
			AverageTransactionAmount: aggs[i].Average,
			StdTransactionAmount:     aggs[i].Std,
			TransactionCount:         aggs[i].Count,
		}
	}
	return out, nil
}
