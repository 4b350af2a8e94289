package storage

import (
	"context"

	"credit-risk-lab/internal/domain"
)

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// InsertBulk adds multiple transactions atomically. Fails entire batch on duplicate transaction_id.
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// GetAll retrieves all transactions, ordered by timestamp ASC, transaction_id ASC.
	GetAll(ctx context.Context) ([]*domain.Transaction, error)

	// GetByCustomerID retrieves transactions of one customer in the same order as GetAll.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Transaction, error)
}

// FeatureStore provides access to feature_records storage.
type FeatureStore interface {
	// InsertBulk adds the records of one engineering run.
	// Fails entire batch on duplicate (run_id, transaction_id).
	InsertBulk(ctx context.Context, runID string, records []*domain.FeatureRecord) error

	// GetByRun retrieves all records of a run, ordered by timestamp ASC, transaction_id ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.FeatureRecord, error)

	// GetByCustomerID retrieves the records of one customer within a run.
	GetByCustomerID(ctx context.Context, runID, customerID string) ([]*domain.FeatureRecord, error)
}

// IVResultStore provides access to iv_results storage.
type IVResultStore interface {
	// Insert stores a report. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, report *domain.IVReport) error

	// GetByRun retrieves a report by run ID. Returns ErrNotFound if not exists.
	GetByRun(ctx context.Context, runID string) (*domain.IVReport, error)
}

// ScoringStore provides access to scoring_requests storage.
type ScoringStore interface {
	// Insert stores a scored request and assigns its ID.
	// Returns ErrDuplicateKey if prediction_id exists.
	Insert(ctx context.Context, req *domain.ScoringRequest) error

	// GetAll retrieves all stored requests, ordered by ID ASC.
	GetAll(ctx context.Context) ([]*domain.ScoringRequest, error)
}
