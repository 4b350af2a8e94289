package reporting

import (
	"sort"
	"time"

	"credit-risk-lab/internal/domain"
)

// Strength buckets a feature by its information value.
type Strength string

const (
	StrengthUseless    Strength = "useless"    // IV < 0.02
	StrengthWeak       Strength = "weak"       // 0.02 <= IV < 0.1
	StrengthMedium     Strength = "medium"     // 0.1 <= IV < 0.3
	StrengthStrong     Strength = "strong"     // 0.3 <= IV < 0.5
	StrengthSuspicious Strength = "suspicious" // IV >= 0.5
)

// ClassifyIV returns the predictive strength of a feature with the given IV.
func ClassifyIV(iv float64) Strength {
	switch {
	case iv < 0.02:
		return StrengthUseless
	case iv < 0.1:
		return StrengthWeak
	case iv < 0.3:
		return StrengthMedium
	case iv < 0.5:
		return StrengthStrong
	default:
		return StrengthSuspicious
	}
}

// Report represents the IV report structure.
type Report struct {
	// Metadata
	GeneratedAt  time.Time `json:"generated_at"`
	RunID        string    `json:"run_id,omitempty"`
	Target       string    `json:"target"`
	FeatureCount int       `json:"feature_count"`

	// Ranking (sorted by IV desc, then variable asc)
	Ranking []RankingRow `json:"ranking"`

	// Per-feature bin breakdowns in input column order
	Features []domain.FeatureIV `json:"features"`

	Warnings []string `json:"warnings,omitempty"`
}

// RankingRow represents one row in the IV ranking table.
type RankingRow struct {
	Rank     int      `json:"rank"`
	Variable string   `json:"variable"`
	IV       float64  `json:"iv"`
	Bins     int      `json:"bins"`
	Strength Strength `json:"strength"`
}

// Build converts an evaluation result into a report.
func Build(iv *domain.IVReport, generatedAt time.Time) *Report {
	bins := make(map[string]int, len(iv.Features))
	for _, f := range iv.Features {
		bins[f.Variable] = len(f.Bins)
	}

	ranking := make([]RankingRow, len(iv.Summary))
	for i, s := range iv.Summary {
		ranking[i] = RankingRow{
			Variable: s.Variable,
			IV:       s.IV,
			Bins:     bins[s.Variable],
			Strength: ClassifyIV(s.IV),
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].IV != ranking[j].IV {
			return ranking[i].IV > ranking[j].IV
		}
		return ranking[i].Variable < ranking[j].Variable
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	features := make([]domain.FeatureIV, len(iv.Features))
	copy(features, iv.Features)

	return &Report{
		GeneratedAt:  generatedAt,
		RunID:        iv.RunID,
		Target:       iv.Target,
		FeatureCount: len(iv.Summary),
		Ranking:      ranking,
		Features:     features,
		Warnings:     append([]string(nil), iv.Warnings...),
	}
}
