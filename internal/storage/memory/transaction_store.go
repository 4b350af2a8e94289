package memory

import (
	"context"
	"sort"
	"sync"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// InsertBulk adds multiple transactions. Fails entire batch on duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(txs))

	// First pass: validate and check duplicates (existing + intra-batch)
	for _, tx := range txs {
		if tx == nil || tx.TransactionID == "" || tx.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[tx.TransactionID] = struct{}{}
	}

	// Second pass: insert all
	for _, tx := range txs {
		txCopy := *tx
		s.data[tx.TransactionID] = &txCopy
	}

	return nil
}

// GetAll retrieves all transactions, ordered by timestamp ASC, transaction_id ASC.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		txCopy := *tx
		result = append(result, &txCopy)
	}
	sortTransactions(result)

	return result, nil
}

// GetByCustomerID retrieves transactions of one customer.
func (s *TransactionStore) GetByCustomerID(_ context.Context, customerID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.CustomerID == customerID {
			txCopy := *tx
			result = append(result, &txCopy)
		}
	}
	sortTransactions(result)

	return result, nil
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return transactionLess(txs[i], txs[j])
	})
}

func transactionLess(a, b *domain.Transaction) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.TransactionID < b.TransactionID
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
