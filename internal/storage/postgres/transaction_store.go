package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const selectTransactions = `
	SELECT transaction_id, customer_id, amount, timestamp,
		provider_id, product_id, product_category, channel_id
	FROM transactions
`

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if t == nil || t.TransactionID == "" || t.CustomerID == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (
			transaction_id, customer_id, amount, timestamp,
			provider_id, product_id, product_category, channel_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, t := range txs {
		_, err := tx.Exec(ctx, query,
			t.TransactionID,
			t.CustomerID,
			t.Amount,
			nullableTime(t.Timestamp),
			t.ProviderID,
			t.ProductID,
			t.ProductCategory,
			t.ChannelID,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves all transactions, ordered by timestamp ASC, transaction_id ASC.
// Transactions without a timestamp sort first.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := selectTransactions + `
		ORDER BY timestamp ASC NULLS FIRST, transaction_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByCustomerID retrieves transactions of one customer.
func (s *TransactionStore) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	query := selectTransactions + `
		WHERE customer_id = $1
		ORDER BY timestamp ASC NULLS FIRST, transaction_id ASC
	`

	rows, err := s.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("get transactions by customer id: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		var ts *time.Time

		err := rows.Scan(
			&t.TransactionID,
			&t.CustomerID,
			&t.Amount,
			&ts,
			&t.ProviderID,
			&t.ProductID,
			&t.ProductCategory,
			&t.ChannelID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if ts != nil {
			t.Timestamp = *ts
		}

		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
