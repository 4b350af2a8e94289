package domain

import "time"

// Transaction is a raw transaction row as supplied by a loader.
// Corresponds to transactions table in PostgreSQL.
type Transaction struct {
	TransactionID   string    // unique transaction identifier
	CustomerID      string    // entity identifier, grouping key for aggregates
	Amount          string    // raw decimal text, parsed during aggregation
	Timestamp       time.Time // transaction start time, zero if missing
	ProviderID      string    // optional pass-through
	ProductID       string    // optional pass-through
	ProductCategory string    // optional pass-through
	ChannelID       string    // optional pass-through
}
