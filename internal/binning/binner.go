// Package binning discretizes numeric feature columns into quantile bins.
package binning

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/woe"
)

// DefaultBins is the number of quantile bins per numeric column.
const DefaultBins = 5

// QuantileBinner splits numeric columns at evenly spaced percentiles.
// Columns with any non-numeric cell are passed through as categorical bins.
type QuantileBinner struct {
	Bins    int
	Exclude []string // columns dropped from the output, e.g. identifiers
}

// Bin discretizes every column of table except target, which is copied as is.
func (b QuantileBinner) Bin(table *domain.FeatureTable, target string) (*domain.BinnedTable, error) {
	bins := b.Bins
	if bins <= 0 {
		bins = DefaultBins
	}
	if table.ColumnIndex(target) < 0 {
		return nil, &woe.SchemaError{Column: target}
	}

	excluded := make(map[string]bool, len(b.Exclude))
	for _, c := range b.Exclude {
		excluded[c] = true
	}

	var keep []int
	for i, c := range table.Columns {
		if !excluded[c] || c == target {
			keep = append(keep, i)
		}
	}

	out := &domain.BinnedTable{
		Columns: make([]string, len(keep)),
		Rows:    make([][]string, len(table.Rows)),
	}
	for j := range out.Rows {
		out.Rows[j] = make([]string, len(keep))
	}

	for k, col := range keep {
		name := table.Columns[col]
		out.Columns[k] = name

		labels := columnValues(table, col)
		if name != target {
			if edges, ok := quantileEdges(labels, bins); ok {
				labels = assign(labels, edges)
			}
		}
		for j := range out.Rows {
			out.Rows[j][k] = labels[j]
		}
	}
	return out, nil
}

func columnValues(table *domain.FeatureTable, col int) []string {
	vals := make([]string, len(table.Rows))
	for j, row := range table.Rows {
		if col < len(row) {
			vals[j] = strings.TrimSpace(row[col])
		}
	}
	return vals
}

// quantileEdges returns bin edges for a numeric column, including -Inf and
// +Inf at the ends. ok is false when the column is not numeric.
func quantileEdges(vals []string, bins int) ([]float64, bool) {
	var nums []float64
	for _, v := range vals {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			return nil, false
		}
		nums = append(nums, f)
	}
	if len(nums) == 0 {
		return nil, false
	}
	sort.Float64s(nums)

	edges := []float64{math.Inf(-1)}
	for k := 1; k < bins; k++ {
		cut := computePercentile(nums, float64(k)/float64(bins))
		if cut > edges[len(edges)-1] && cut > nums[0] {
			edges = append(edges, cut)
		}
	}
	edges = append(edges, math.Inf(1))
	return edges, true
}

// assign maps each numeric value to the label of its [lo,hi) bin.
func assign(vals []string, edges []float64) []string {
	out := make([]string, len(vals))
	for j, v := range vals {
		if v == "" {
			continue
		}
		f, _ := strconv.ParseFloat(v, 64)
		i := sort.Search(len(edges)-1, func(i int) bool { return edges[i+1] > f })
		if i >= len(edges)-1 {
			i = len(edges) - 2
		}
		out[j] = label(edges[i], edges[i+1])
	}
	return out
}

func label(lo, hi float64) string {
	return "[" + formatEdge(lo) + "," + formatEdge(hi) + ")"
}

func formatEdge(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
