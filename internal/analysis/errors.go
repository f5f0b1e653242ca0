package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned when an aggregation is asked to run over a
// table with zero rows.
var ErrEmptyTable = errors.New("table has no rows to aggregate")

// ColumnNotFoundError reports an explicitly requested column that the
// table does not carry.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in table", e.Column)
}

// AllNullColumnError reports an extreme-value lookup over a column whose
// values are all missing.
type AllNullColumnError struct {
	Column string
}

func (e *AllNullColumnError) Error() string {
	return fmt.Sprintf("column %q holds no values", e.Column)
}
