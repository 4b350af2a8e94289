package domain

// DefaultTargetColumn is the binary target column name used by the training data.
const DefaultTargetColumn = "RiskResult"

// BinnedTable is a discretized feature table with one binary target column.
// Rows are aligned to Columns. An empty cell is a missing bin value.
type BinnedTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t *BinnedTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FeatureTable is a labeled table of raw (not yet discretized) values in the
// same row-major shape as BinnedTable.
type FeatureTable = BinnedTable
