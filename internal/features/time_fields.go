package features

import "credit-risk-lab/internal/domain"

// TimeFields are the calendar components of a transaction timestamp.
type TimeFields struct {
	Hour  int
	Day   int
	Month int
	Year  int
}

// ExtractTimeFields decomposes each record's timestamp in its own location.
// Output is aligned with txs. A zero timestamp fails the whole call.
func ExtractTimeFields(txs []*domain.Transaction) ([]TimeFields, error) {
	out := make([]TimeFields, len(txs))
	for i, tx := range txs {
		if tx.Timestamp.IsZero() {
			return nil, &MissingTimestampError{Row: i, TransactionID: tx.TransactionID}
		}
		ts := tx.Timestamp
		out[i] = TimeFields{
			Hour:  ts.Hour(),
			Day:   ts.Day(),
			Month: int(ts.Month()),
			Year:  ts.Year(),
		}
	}
	return out, nil
}
