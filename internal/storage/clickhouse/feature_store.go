package clickhouse

import (
	"context"
	"fmt"
	"time"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const selectFeatureRecords = `
	SELECT
		run_id, transaction_id, customer_id, amount, timestamp,
		provider_id, product_id, product_category, channel_id,
		transaction_hour, transaction_day, transaction_month, transaction_year,
		total_transaction_amount, average_transaction_amount, std_transaction_amount,
		transaction_count
	FROM feature_records
`

// InsertBulk adds the records of one run. Fails entire batch on duplicate (run_id, transaction_id).
func (s *FeatureStore) InsertBulk(ctx context.Context, runID string, records []*domain.FeatureRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.TransactionID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[r.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.TransactionID] = struct{}{}
	}

	// Check for duplicates against existing rows of the run
	exists, err := s.exists(ctx, runID, seen)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO feature_records (
			run_id, transaction_id, customer_id, amount, timestamp,
			provider_id, product_id, product_category, channel_id,
			transaction_hour, transaction_day, transaction_month, transaction_year,
			total_transaction_amount, average_transaction_amount, std_transaction_amount,
			transaction_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		// nil std is passed through for the Nullable column
		err = batch.Append(
			runID, r.TransactionID, r.CustomerID, r.Amount, r.Timestamp.UTC(),
			r.ProviderID, r.ProductID, r.ProductCategory, r.ChannelID,
			uint8(r.TransactionHour), uint8(r.TransactionDay), uint8(r.TransactionMonth), uint16(r.TransactionYear),
			r.TotalTransactionAmount, r.AverageTransactionAmount, r.StdTransactionAmount,
			uint32(r.TransactionCount),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves all records of a run, ordered by timestamp ASC, transaction_id ASC.
func (s *FeatureStore) GetByRun(ctx context.Context, runID string) ([]*domain.FeatureRecord, error) {
	query := selectFeatureRecords + `
		WHERE run_id = ?
		ORDER BY timestamp ASC, transaction_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run: %w", err)
	}
	defer rows.Close()

	return scanFeatureRecords(rows)
}

// GetByCustomerID retrieves the records of one customer within a run.
func (s *FeatureStore) GetByCustomerID(ctx context.Context, runID, customerID string) ([]*domain.FeatureRecord, error) {
	query := selectFeatureRecords + `
		WHERE run_id = ? AND customer_id = ?
		ORDER BY timestamp ASC, transaction_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, customerID)
	if err != nil {
		return nil, fmt.Errorf("query by customer id: %w", err)
	}
	defer rows.Close()

	return scanFeatureRecords(rows)
}

// exists checks if any of the transaction IDs is already stored for the run.
func (s *FeatureStore) exists(ctx context.Context, runID string, transactionIDs map[string]struct{}) (bool, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT transaction_id FROM feature_records
		WHERE run_id = ?
	`, runID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return false, err
		}
		if _, ok := transactionIDs[id]; ok {
			return true, nil
		}
	}
	return false, rows.Err()
}

// scanFeatureRecords scans multiple rows.
func scanFeatureRecords(rows chRows) ([]*domain.FeatureRecord, error) {
	var records []*domain.FeatureRecord

	for rows.Next() {
		var r domain.FeatureRecord
		var ts time.Time
		var hour, day, month uint8
		var year uint16
		var count uint32

		err := rows.Scan(
			&r.RunID, &r.TransactionID, &r.CustomerID, &r.Amount, &ts,
			&r.ProviderID, &r.ProductID, &r.ProductCategory, &r.ChannelID,
			&hour, &day, &month, &year,
			&r.TotalTransactionAmount, &r.AverageTransactionAmount, &r.StdTransactionAmount,
			&count,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature records row: %w", err)
		}

		r.Timestamp = ts
		r.TransactionHour = int(hour)
		r.TransactionDay = int(day)
		r.TransactionMonth = int(month)
		r.TransactionYear = int(year)
		r.TransactionCount = int(count)

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature records rows: %w", err)
	}

	return records, nil
}
