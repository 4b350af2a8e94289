package memory

import (
	"context"
	"sync"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// ScoringStore is an in-memory implementation of storage.ScoringStore.
type ScoringStore struct {
	mu          sync.RWMutex
	data        []*domain.ScoringRequest // ordered by ID
	predictions map[string]struct{}
	nextID      int64
}

// NewScoringStore creates a new in-memory scoring request store.
func NewScoringStore() *ScoringStore {
	return &ScoringStore{
		predictions: make(map[string]struct{}),
		nextID:      1,
	}
}

// Insert stores a scored request and assigns its ID.
func (s *ScoringStore) Insert(_ context.Context, req *domain.ScoringRequest) error {
	if req == nil || !req.ProductCategory.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.PredictionID != "" {
		if _, exists := s.predictions[req.PredictionID]; exists {
			return storage.ErrDuplicateKey
		}
		s.predictions[req.PredictionID] = struct{}{}
	}

	req.ID = s.nextID
	s.nextID++

	reqCopy := *req
	s.data = append(s.data, &reqCopy)
	return nil
}

// GetAll retrieves all stored requests, ordered by ID ASC.
func (s *ScoringStore) GetAll(_ context.Context) ([]*domain.ScoringRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoringRequest, len(s.data))
	for i, req := range s.data {
		reqCopy := *req
		result[i] = &reqCopy
	}
	return result, nil
}

var _ storage.ScoringStore = (*ScoringStore)(nil)
