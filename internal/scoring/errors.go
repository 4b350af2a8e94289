package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the sentinel wrapped by every ValidationError.
var ErrInvalidRequest = errors.New("invalid scoring request")

// ErrVectorLength is returned when a classifier receives a vector of the wrong size.
var ErrVectorLength = errors.New("feature vector length mismatch")

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
