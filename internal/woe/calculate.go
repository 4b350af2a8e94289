package woe

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"credit-risk-lab/internal/domain"
)

// target classes
const (
	classGood = 0
	classBad  = 1
)

// CalculateWoEIV computes the bin breakdown and IV of the feature at column
// featureIdx against the target at column targetIdx.
//
// Bins are enumerated in first-encounter order, then sorted ascending by WoE.
// Missing (empty or absent) cells form no bin. A target cell that is neither 0 nor 1
// counts towards All only.
func CalculateWoEIV(table *domain.BinnedTable, featureIdx, targetIdx int) domain.FeatureIV {
	result := domain.FeatureIV{
		Variable: table.Columns[featureIdx],
		Bins:     []domain.BinStat{},
	}

	// Pass 1: All/Good/Bad per bin from a single scan.
	index := make(map[string]int)
	var bins []domain.BinStat
	for _, row := range table.Rows {
		val := cell(row, featureIdx)
		if val == "" {
			continue
		}
		bi, ok := index[val]
		if !ok {
			bi = len(bins)
			index[val] = bi
			bins = append(bins, domain.BinStat{Bin: val})
		}
		bins[bi].All++
		switch parseClass(cell(row, targetIdx)) {
		case classGood:
			bins[bi].Good++
		case classBad:
			bins[bi].Bad++
		}
	}
	if len(bins) == 0 {
		return result
	}

	var totalGood, totalBad int
	for _, b := range bins {
		totalGood += b.Good
		totalBad += b.Bad
	}

	// Pass 2: distributions, WoE and IV contributions.
	var iv float64
	for i := range bins {
		b := &bins[i]
		b.DistrGood = share(b.Good, totalGood)
		b.DistrBad = share(b.Bad, totalBad)
		b.WoE = weightOfEvidence(b.DistrGood, b.DistrBad)
		b.IV = (b.DistrGood - b.DistrBad) * b.WoE
		iv += b.IV
	}

	sort.SliceStable(bins, func(i, j int) bool {
		return bins[i].WoE < bins[j].WoE
	})

	result.Bins = bins
	result.IV = iv
	return result
}

// weightOfEvidence returns ln(distrGood/distrBad). A ratio of 0, an infinite
// ratio and an undefined ratio all yield 0 so IV sums stay finite.
func weightOfEvidence(distrGood, distrBad float64) float64 {
	woe := math.Log(distrGood / distrBad)
	if math.IsInf(woe, 0) || math.IsNaN(woe) {
		return 0
	}
	return woe
}

// share is n/total, or 0 when total is 0.
func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// cell returns row[i], or "" for a short row.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// parseClass returns 0 or 1 for a numeric target cell, -1 otherwise.
func parseClass(cell string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return -1
	}
	switch v {
	case 0:
		return classGood
	case 1:
		return classBad
	default:
		return -1
	}
}
