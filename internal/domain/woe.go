package domain

import "time"

// BinStat is the WoE/IV breakdown for one bin of one feature.
type BinStat struct {
	Bin       string  `json:"bin"`
	All       int     `json:"all"`
	Good      int     `json:"good"`
	Bad       int     `json:"bad"`
	DistrGood float64 `json:"distr_good"`
	DistrBad  float64 `json:"distr_bad"`
	WoE       float64 `json:"woe"`
	IV        float64 `json:"iv"` // contribution of this bin to the feature IV
}

// FeatureIV holds the bin breakdown and the information value of one feature.
type FeatureIV struct {
	Variable string    `json:"variable"`
	Bins     []BinStat `json:"bins"` // sorted ascending by WoE
	IV       float64   `json:"iv"`
}

// IVSummaryRow is one row of the (Variable, IV) summary table.
type IVSummaryRow struct {
	Variable string  `json:"variable"`
	IV       float64 `json:"iv"`
}

// IVReport is the result of one evaluation run.
// Corresponds to iv_results table in ClickHouse.
type IVReport struct {
	RunID       string         `json:"run_id"`
	Target      string         `json:"target"`
	Features    []FeatureIV    `json:"features"` // input column order
	Summary     []IVSummaryRow `json:"summary"`  // input column order
	Warnings    []string       `json:"warnings,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Feature returns the breakdown for variable, or nil.
func (r *IVReport) Feature(variable string) *FeatureIV {
	for i := range r.Features {
		if r.Features[i].Variable == variable {
			return &r.Features[i]
		}
	}
	return nil
}
