package woe

import (
	"errors"
	"fmt"
)

// ErrSchema is returned when a required column is absent.
var ErrSchema = errors.New("schema error")

// SchemaError names the missing column.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: column %q not found", ErrSchema, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// EmptyFeatureWarning reports a feature column with no bins.
// It is non-fatal: the feature is reported with IV 0.
type EmptyFeatureWarning struct {
	Column string
}

func (w EmptyFeatureWarning) String() string {
	return fmt.Sprintf("feature %q has no bins, IV reported as 0", w.Column)
}
