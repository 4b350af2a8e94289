package clickhouse

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

func testIVReport(runID string) *domain.IVReport {
	ln4 := math.Log(4)
	return &domain.IVReport{
		RunID:  runID,
		Target: domain.DefaultTargetColumn,
		Features: []domain.FeatureIV{
			{
				Variable: "Amount",
				Bins: []domain.BinStat{
					{Bin: "high", All: 5, Good: 1, Bad: 4, DistrGood: 0.2, DistrBad: 0.8, WoE: -ln4, IV: 0.6 * ln4},
					{Bin: "low", All: 5, Good: 4, Bad: 1, DistrGood: 0.8, DistrBad: 0.2, WoE: ln4, IV: 0.6 * ln4},
				},
				IV: 1.2 * ln4,
			},
			{Variable: "Empty"},
		},
		Summary: []domain.IVSummaryRow{
			{Variable: "Amount", IV: 1.2 * ln4},
			{Variable: "Empty", IV: 0},
		},
		Warnings:    []string{"feature Empty has no rows"},
		GeneratedAt: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}
}

func TestIVResultStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewIVResultStore(conn)
	ctx := context.Background()
	want := testIVReport("run-1")

	require.NoError(t, store.Insert(ctx, want))

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.Target, got.Target)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, want.Summary, got.Summary)
	assert.Equal(t, want.Warnings, got.Warnings)

	require.Len(t, got.Features, 2)
	assert.Equal(t, "Amount", got.Features[0].Variable)
	assert.Equal(t, want.Features[0].Bins, got.Features[0].Bins)
	assert.InDelta(t, want.Features[0].IV, got.Features[0].IV, 1e-12)
	assert.Equal(t, "Empty", got.Features[1].Variable)
	assert.Empty(t, got.Features[1].Bins)
}

func TestIVResultStore_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewIVResultStore(conn)
	_, err := store.GetByRun(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIVResultStore_Duplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewIVResultStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testIVReport("run-1")))
	err := store.Insert(ctx, testIVReport("run-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
