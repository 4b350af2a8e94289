package binning

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/woe"
)

func TestComputePercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 0.0, computePercentile(nil, 0.5))
	assert.Equal(t, 7.0, computePercentile([]float64{7}, 0.9))
	assert.Equal(t, 3.0, computePercentile(sorted, 0.5))
	assert.InDelta(t, 1.4, computePercentile(sorted, 0.1), 1e-12)
	assert.Equal(t, 5.0, computePercentile(sorted, 1.0))
}

func TestQuantileBinner_NumericColumn(t *testing.T) {
	table := &domain.FeatureTable{Columns: []string{"Amount", "RiskResult"}}
	for i := 1; i <= 8; i++ {
		table.Rows = append(table.Rows, []string{strconv.Itoa(i * 10), strconv.Itoa(i % 2)})
	}

	binned, err := QuantileBinner{Bins: 2}.Bin(table, "RiskResult")
	require.NoError(t, err)

	assert.Equal(t, []string{"Amount", "RiskResult"}, binned.Columns)
	// median of 10..80 is 45
	assert.Equal(t, "[-inf,45)", binned.Rows[0][0])
	assert.Equal(t, "[-inf,45)", binned.Rows[3][0])
	assert.Equal(t, "[45,inf)", binned.Rows[4][0])
	assert.Equal(t, "[45,inf)", binned.Rows[7][0])

	for i, row := range binned.Rows {
		assert.Equal(t, table.Rows[i][1], row[1], "target copied as is")
	}
}

func TestQuantileBinner_CategoricalPassThroughAndExclude(t *testing.T) {
	table := &domain.FeatureTable{
		Columns: []string{"CustomerId", "ProductCategory", "RiskResult"},
		Rows: [][]string{
			{"c1", "airtime", "0"},
			{"c2", "tv", "1"},
			{"c3", "", "0"},
		},
	}

	binned, err := QuantileBinner{Exclude: []string{"CustomerId"}}.Bin(table, "RiskResult")
	require.NoError(t, err)

	assert.Equal(t, []string{"ProductCategory", "RiskResult"}, binned.Columns)
	assert.Equal(t, "airtime", binned.Rows[0][0])
	assert.Equal(t, "tv", binned.Rows[1][0])
	assert.Equal(t, "", binned.Rows[2][0])
}

func TestQuantileBinner_ConstantColumnSingleBin(t *testing.T) {
	table := &domain.FeatureTable{
		Columns: []string{"Hour", "RiskResult"},
		Rows:    [][]string{{"3", "0"}, {"3", "1"}, {"3", "0"}},
	}

	binned, err := QuantileBinner{Bins: 4}.Bin(table, "RiskResult")
	require.NoError(t, err)
	for _, row := range binned.Rows {
		assert.Equal(t, "[-inf,inf)", row[0])
	}
}

func TestQuantileBinner_MissingTarget(t *testing.T) {
	_, err := QuantileBinner{}.Bin(&domain.FeatureTable{Columns: []string{"a"}}, "RiskResult")
	assert.ErrorIs(t, err, woe.ErrSchema)
}
