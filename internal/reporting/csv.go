package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders the IV ranking as CSV string.
func RenderCSV(r *Report) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{"rank", "variable", "iv", "bins", "strength"})
	for _, row := range r.Ranking {
		_ = w.Write([]string{
			strconv.Itoa(row.Rank),
			row.Variable,
			strconv.FormatFloat(row.IV, 'f', 6, 64),
			strconv.Itoa(row.Bins),
			string(row.Strength),
		})
	}
	w.Flush()
	return sb.String()
}

// RenderBinsCSV renders every feature's bin breakdown as CSV string.
func RenderBinsCSV(r *Report) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{"variable", "bin", "all", "good", "bad", "distr_good", "distr_bad", "woe", "iv"})
	for _, f := range r.Features {
		for _, b := range f.Bins {
			_ = w.Write([]string{
				f.Variable,
				b.Bin,
				strconv.Itoa(b.All),
				strconv.Itoa(b.Good),
				strconv.Itoa(b.Bad),
				strconv.FormatFloat(b.DistrGood, 'f', 6, 64),
				strconv.FormatFloat(b.DistrBad, 'f', 6, 64),
				strconv.FormatFloat(b.WoE, 'f', 6, 64),
				strconv.FormatFloat(b.IV, 'f', 6, 64),
			})
		}
	}
	w.Flush()
	return sb.String()
}
