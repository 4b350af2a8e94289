package domain

// FeatureRecord is one engineered row per input transaction.
// Corresponds to feature_records table in ClickHouse.
type FeatureRecord struct {
	Transaction

	RunID string // engineering run that produced the record

	// Time-derived fields
	TransactionHour  int // 0-23
	TransactionDay   int // 1-31
	TransactionMonth int // 1-12
	TransactionYear  int

	// Per-customer aggregates, identical for every row of a customer
	TotalTransactionAmount   float64
	AverageTransactionAmount float64
	StdTransactionAmount     *float64 // sample stddev, NULL when the customer has one transaction
	TransactionCount         int
}
