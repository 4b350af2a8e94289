package memory

import (
	"context"
	"sync"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// IVResultStore is an in-memory implementation of storage.IVResultStore.
type IVResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.IVReport // keyed by run_id
}

// NewIVResultStore creates a new in-memory IV result store.
func NewIVResultStore() *IVResultStore {
	return &IVResultStore{
		data: make(map[string]*domain.IVReport),
	}
}

// Insert stores a report. Returns ErrDuplicateKey if run_id exists.
func (s *IVResultStore) Insert(_ context.Context, report *domain.IVReport) error {
	if report == nil || report.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[report.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[report.RunID] = copyIVReport(report)
	return nil
}

// GetByRun retrieves a report by run ID. Returns ErrNotFound if not exists.
func (s *IVResultStore) GetByRun(_ context.Context, runID string) (*domain.IVReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyIVReport(report), nil
}

func copyIVReport(r *domain.IVReport) *domain.IVReport {
	out := *r
	out.Features = make([]domain.FeatureIV, len(r.Features))
	for i, f := range r.Features {
		out.Features[i] = f
		out.Features[i].Bins = append([]domain.BinStat(nil), f.Bins...)
	}
	out.Summary = append([]domain.IVSummaryRow(nil), r.Summary...)
	out.Warnings = append([]string(nil), r.Warnings...)
	return &out
}

var _ storage.IVResultStore = (*IVResultStore)(nil)
