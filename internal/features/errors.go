package features

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimestamp is returned when a record has no usable timestamp.
	ErrMissingTimestamp = errors.New("missing timestamp")

	// ErrDataIntegrity is returned when an amount cannot be parsed as a real number.
	ErrDataIntegrity = errors.New("data integrity error")
)

// MissingTimestampError locates the record without a timestamp.
type MissingTimestampError struct {
	Row           int
	TransactionID string
}

func (e *MissingTimestampError) Error() string {
	return fmt.Sprintf("row %d (transaction %q): %v", e.Row, e.TransactionID, ErrMissingTimestamp)
}

func (e *MissingTimestampError) Unwrap() error { return ErrMissingTimestamp }

// DataIntegrityError locates the amount that could not be parsed.
type DataIntegrityError struct {
	CustomerID string
	Row        int
	Value      string
	Err        error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%v: customer %q row %d: amount %q is not a real number: %v",
		ErrDataIntegrity, e.CustomerID, e.Row, e.Value, e.Err)
}

func (e *DataIntegrityError) Unwrap() []error { return []error{ErrDataIntegrity, e.Err} }
