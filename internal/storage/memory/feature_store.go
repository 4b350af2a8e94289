package memory

import (
	"context"
	"sort"
	"sync"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.FeatureRecord // run_id -> transaction_id -> record
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[string]map[string]*domain.FeatureRecord),
	}
}

// InsertBulk adds the records of one run. Fails entire batch on duplicate.
func (s *FeatureStore) InsertBulk(_ context.Context, runID string, records []*domain.FeatureRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run := s.data[runID]
	batchKeys := make(map[string]struct{}, len(records))

	// First pass: check for duplicates (existing + intra-batch)
	for _, r := range records {
		if r == nil || r.TransactionID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := run[r.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.TransactionID] = struct{}{}
	}

	if run == nil {
		run = make(map[string]*domain.FeatureRecord, len(records))
		s.data[runID] = run
	}

	// Second pass: insert all
	for _, r := range records {
		rec := copyFeatureRecord(r)
		rec.RunID = runID
		run[r.TransactionID] = rec
	}

	return nil
}

// GetByRun retrieves all records of a run, ordered by timestamp ASC, transaction_id ASC.
func (s *FeatureStore) GetByRun(_ context.Context, runID string) ([]*domain.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.data[runID]
	result := make([]*domain.FeatureRecord, 0, len(run))
	for _, r := range run {
		result = append(result, copyFeatureRecord(r))
	}
	sortFeatureRecords(result)

	return result, nil
}

// GetByCustomerID retrieves the records of one customer within a run.
func (s *FeatureStore) GetByCustomerID(_ context.Context, runID, customerID string) ([]*domain.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRecord
	for _, r := range s.data[runID] {
		if r.CustomerID == customerID {
			result = append(result, copyFeatureRecord(r))
		}
	}
	sortFeatureRecords(result)

	return result, nil
}

func copyFeatureRecord(r *domain.FeatureRecord) *domain.FeatureRecord {
	rec := *r
	if r.StdTransactionAmount != nil {
		std := *r.StdTransactionAmount
		rec.StdTransactionAmount = &std
	}
	return &rec
}

func sortFeatureRecords(records []*domain.FeatureRecord) {
	sort.Slice(records, func(i, j int) bool {
		return transactionLess(&records[i].Transaction, &records[j].Transaction)
	})
}

var _ storage.FeatureStore = (*FeatureStore)(nil)
