package backend

import (
	"errors"
	"fmt"
)

// ErrQueryTimeout marks queries killed by a context deadline. Callers can
// treat these as retryable, unlike plain query failures.
var ErrQueryTimeout = errors.New("query timed out")

// QueryError wraps a failed query with the table and pipeline stage it ran
// for.
type QueryError struct {
	Table string
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Table, e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
