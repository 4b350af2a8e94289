package dataset

import (
	"math"
	"sort"
	"strings"

	"credit-risk-lab/internal/domain"
)

// ColumnMissing describes missing values in one column.
type ColumnMissing struct {
	Column  string
	Missing int
	Percent float64 // rounded to 2 decimals
}

// Profile summarizes the completeness of a table.
type Profile struct {
	Rows            int
	Columns         int
	DuplicateRows   int
	Missing         []ColumnMissing // only columns with missing values, by Percent desc
	MostMissing     []string        // columns sharing the highest missing count
	OverHalfMissing []string        // columns with more than 50% missing
}

// BuildProfile counts empty cells per column and exact duplicate rows.
func BuildProfile(table *domain.BinnedTable) Profile {
	p := Profile{Rows: len(table.Rows), Columns: len(table.Columns)}

	missing := make([]int, len(table.Columns))
	seen := make(map[string]struct{}, len(table.Rows))
	for _, row := range table.Rows {
		for i := range table.Columns {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				missing[i]++
			}
		}
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			p.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}
	}

	maxMissing := 0
	for i, c := range table.Columns {
		if missing[i] == 0 {
			continue
		}
		pct := math.Round(float64(missing[i])/float64(p.Rows)*10000) / 100
		p.Missing = append(p.Missing, ColumnMissing{Column: c, Missing: missing[i], Percent: pct})
		if missing[i] > maxMissing {
			maxMissing = missing[i]
		}
		if pct > 50 {
			p.OverHalfMissing = append(p.OverHalfMissing, c)
		}
	}
	sort.SliceStable(p.Missing, func(i, j int) bool {
		return p.Missing[i].Percent > p.Missing[j].Percent
	})
	for _, m := range p.Missing {
		if m.Missing == maxMissing {
			p.MostMissing = append(p.MostMissing, m.Column)
		}
	}
	return p
}
