package features

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"credit-risk-lab/internal/domain"
)

var errNotFinite = errors.New("value is not finite")

// Aggregate holds the per-customer statistics broadcast onto every row.
type Aggregate struct {
	Total   float64
	Average float64
	Std     *float64 // nil when Count < 2
	Count   int
}

// group is the set of row indexes belonging to one customer, in input order.
type group struct {
	customerID string
	rows       []int
}

// ReduceByEntity is pass 1: it builds customer_id -> Aggregate.
// Groups are reduced independently, at most workers at a time (workers <= 0
// means one per group). Each group is reduced in input row order by a
// single goroutine, so results do not depend on scheduling.
//
// If any amount fails to parse, the error for the lowest row index is
// returned and no aggregates are produced.
func ReduceByEntity(txs []*domain.Transaction, workers int) (map[string]Aggregate, error) {
	groups := groupByCustomer(txs)

	aggs := make([]Aggregate, len(groups))
	errs := make([]*DataIntegrityError, len(groups))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for gi := range groups {
		g.Go(func() error {
			aggs[gi], errs[gi] = reduceGroup(txs, groups[gi])
			return nil
		})
	}
	_ = g.Wait()

	var first *DataIntegrityError
	for _, e := range errs {
		if e != nil && (first == nil || e.Row < first.Row) {
			first = e
		}
	}
	if first != nil {
		return nil, first
	}

	out := make(map[string]Aggregate, len(groups))
	for gi, grp := range groups {
		out[grp.customerID] = aggs[gi]
	}
	return out, nil
}

// AggregateByEntity runs both passes and returns one Aggregate per input row.
// Rows of the same customer carry bit-identical values.
func AggregateByEntity(txs []*domain.Transaction, workers int) ([]Aggregate, error) {
	byCustomer, err := ReduceByEntity(txs, workers)
	if err != nil {
		return nil, err
	}

	// Pass 2: join back by customer id.
	out := make([]Aggregate, len(txs))
	for i, tx := range txs {
		agg := byCustomer[tx.CustomerID]
		if agg.Std != nil {
			std := *agg.Std
			agg.Std = &std
		}
		out[i] = agg
	}
	return out, nil
}

func groupByCustomer(txs []*domain.Transaction) []group {
	index := make(map[string]int)
	var groups []group
	for i, tx := range txs {
		gi, ok := index[tx.CustomerID]
		if !ok {
			gi = len(groups)
			index[tx.CustomerID] = gi
			groups = append(groups, group{customerID: tx.CustomerID})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	return groups
}

// reduceGroup computes sum and mean with compensated summation and the
// sample variance with Welford's update, matching the grouped reductions
// the model was trained on.
func reduceGroup(txs []*domain.Transaction, grp group) (Aggregate, *DataIntegrityError) {
	var (
		sum, comp float64
		mean, m2  float64
		n         int
	)
	for _, row := range grp.rows {
		v, err := parseAmount(txs[row].Amount)
		if err != nil {
			return Aggregate{}, &DataIntegrityError{
				CustomerID: grp.customerID,
				Row:        row,
				Value:      txs[row].Amount,
				Err:        err,
			}
		}

		// Kahan summation
		y := v - comp
		t := sum + y
		comp = t - sum - y
		sum = t

		// Welford
		n++
		prevMean := mean
		mean += (v - prevMean) / float64(n)
		m2 += (v - mean) * (v - prevMean)
	}

	agg := Aggregate{
		Total:   sum,
		Average: sum / float64(n),
		Count:   n,
	}
	if n >= 2 {
		std := math.Sqrt(m2 / float64(n-1))
		agg.Std = &std
	}
	return agg, nil
}

func parseAmount(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotFinite
	}
	return f, nil
}
