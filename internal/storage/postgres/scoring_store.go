package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// ScoringStore implements storage.ScoringStore using PostgreSQL.
type ScoringStore struct {
	pool *Pool
}

// NewScoringStore creates a new ScoringStore.
func NewScoringStore(pool *Pool) *ScoringStore {
	return &ScoringStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoringStore = (*ScoringStore)(nil)

// Insert stores a scored request and assigns its ID and CreatedAt.
func (s *ScoringStore) Insert(ctx context.Context, req *domain.ScoringRequest) error {
	if req == nil || !req.ProductCategory.Valid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO scoring_requests (
			prediction_id, provider_id, product_id, product_category, channel_id,
			amount, transaction_hour, transaction_day,
			average_transaction_amount, std_transaction_amount, transaction_month,
			predicted_class
		) VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query,
		req.PredictionID,
		req.ProviderID,
		req.ProductID,
		string(req.ProductCategory),
		req.ChannelID,
		req.Amount,
		req.TransactionHour,
		req.TransactionDay,
		req.AverageTransactionAmount,
		req.STDTransactionAmount,
		req.TransactionMonth,
		req.PredictedClass,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scoring request: %w", err)
	}
	return nil
}

// GetAll retrieves all stored requests, ordered by ID ASC.
func (s *ScoringStore) GetAll(ctx context.Context) ([]*domain.ScoringRequest, error) {
	query := `
		SELECT id, COALESCE(prediction_id, ''), provider_id, product_id, product_category, channel_id,
			amount, transaction_hour, transaction_day,
			average_transaction_amount, std_transaction_amount, transaction_month,
			predicted_class, created_at
		FROM scoring_requests
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all scoring requests: %w", err)
	}
	defer rows.Close()

	return scanScoringRequests(rows)
}

// scanScoringRequests scans multiple rows into a slice of ScoringRequest.
func scanScoringRequests(rows pgx.Rows) ([]*domain.ScoringRequest, error) {
	var reqs []*domain.ScoringRequest

	for rows.Next() {
		var req domain.ScoringRequest
		var category string

		err := rows.Scan(
			&req.ID,
			&req.PredictionID,
			&req.ProviderID,
			&req.ProductID,
			&category,
			&req.ChannelID,
			&req.Amount,
			&req.TransactionHour,
			&req.TransactionDay,
			&req.AverageTransactionAmount,
			&req.STDTransactionAmount,
			&req.TransactionMonth,
			&req.PredictedClass,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scoring request row: %w", err)
		}
		req.ProductCategory = domain.ProductCategory(category)

		reqs = append(reqs, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scoring request rows: %w", err)
	}

	return reqs, nil
}
