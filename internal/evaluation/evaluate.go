// Package evaluation scores binary predictions against actual labels.
package evaluation

import (
	"errors"
	"sort"
)

// ErrLengthMismatch is returned when label, prediction and score slices differ in length.
var ErrLengthMismatch = errors.New("actual, predicted and scores must have equal length")

// Report holds binary classification metrics. Class 1 is the positive (risk) class.
type Report struct {
	Samples        int     `json:"samples"`
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	TrueNegatives  int     `json:"true_negatives"`
	FalseNegatives int     `json:"false_negatives"`
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
	ROCAUC         float64 `json:"roc_auc"`
}

// Evaluate computes the confusion matrix and derived metrics.
// scores are positive-class probabilities; pass nil to skip ROC-AUC.
func Evaluate(actual, predicted []int, scores []float64) (*Report, error) {
	if len(actual) != len(predicted) || (scores != nil && len(scores) != len(actual)) {
		return nil, ErrLengthMismatch
	}

	r := &Report{Samples: len(actual)}
	for i := range actual {
		switch {
		case actual[i] == 1 && predicted[i] == 1:
			r.TruePositives++
		case actual[i] != 1 && predicted[i] == 1:
			r.FalsePositives++
		case actual[i] == 1:
			r.FalseNegatives++
		default:
			r.TrueNegatives++
		}
	}

	r.Accuracy = ratio(r.TruePositives+r.TrueNegatives, r.Samples)
	r.Precision = ratio(r.TruePositives, r.TruePositives+r.FalsePositives)
	r.Recall = ratio(r.TruePositives, r.TruePositives+r.FalseNegatives)
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	if scores != nil {
		r.ROCAUC = computeROCAUC(actual, scores)
	}
	return r, nil
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// computeROCAUC uses the rank-sum statistic with average ranks for ties.
// Returns 0.5 when either class is absent.
func computeROCAUC(actual []int, scores []float64) float64 {
	n := len(scores)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] < scores[order[j]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var pos, neg int
	var rankSum float64
	for i, a := range actual {
		if a == 1 {
			pos++
			rankSum += ranks[i]
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}
	return (rankSum - float64(pos*(pos+1))/2) / float64(pos*neg)
}
