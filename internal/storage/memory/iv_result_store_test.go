package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

func testReport(runID string) *domain.IVReport {
	return &domain.IVReport{
		RunID:  runID,
		Target: domain.DefaultTargetColumn,
		Features: []domain.FeatureIV{
			{
				Variable: "Amount",
				Bins: []domain.BinStat{
					{Bin: "low", All: 2, Good: 1, Bad: 1, DistrGood: 0.5, DistrBad: 0.5},
				},
			},
		},
		Summary:     []domain.IVSummaryRow{{Variable: "Amount", IV: 0}},
		GeneratedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestIVResultStore_InsertAndGet(t *testing.T) {
	store := NewIVResultStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testReport("run-1")))

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, testReport("run-1"), got)

	// Mutating the returned report must not affect the store
	got.Features[0].Bins[0].Bin = "mutated"
	again, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "low", again.Features[0].Bins[0].Bin)
}

func TestIVResultStore_NotFound(t *testing.T) {
	store := NewIVResultStore()

	_, err := store.GetByRun(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIVResultStore_DuplicateKey(t *testing.T) {
	store := NewIVResultStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testReport("run-1")))
	err := store.Insert(ctx, testReport("run-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestIVResultStore_InvalidInput(t *testing.T) {
	store := NewIVResultStore()

	err := store.Insert(context.Background(), &domain.IVReport{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
