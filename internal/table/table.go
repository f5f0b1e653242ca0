package table

import (
	"fmt"
	"time"
)

// DateColumn is the reserved name of the date column every table carries.
const DateColumn = "date"

// Kind tags a column's type. Tags are fixed at construction time; nothing
// downstream re-inspects values to guess types.
type Kind int

const (
	KindDate Kind = iota
	KindNumeric
)

// Record is a single daily observation in row form. Nil values mean the
// observation is missing for that column.
type Record struct {
	Date   time.Time           `json:"date"`
	Values map[string]*float64 `json:"values"`
}

// Table is an order-preserving columnar collection of daily weather
// observations. Rows keep the order the caller supplied them in; several
// aggregations depend on positional order (extreme tie-breaks, the recent
// window of the trend classifier). A Table is immutable once built.
type Table struct {
	dates   []time.Time
	order   []string
	columns map[string][]*float64
}

// New builds a Table from a date column and a set of numeric columns.
// The order slice fixes column iteration order (normally header order).
// Every column must be exactly as long as dates. A zero-row table is
// valid here; aggregating one is the caller's error.
func New(dates []time.Time, order []string, columns map[string][]*float64) (*Table, error) {
	if len(order) != len(columns) {
		return nil, fmt.Errorf("column order lists %d names but %d columns given", len(order), len(columns))
	}

	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if name == DateColumn {
			return nil, fmt.Errorf("%q is reserved for the date column", DateColumn)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true

		values, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("column %q named in order but not provided", name)
		}
		if len(values) != len(dates) {
			return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(dates))
		}
	}

	return &Table{
		dates:   dates,
		order:   order,
		columns: columns,
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.dates)
}

// Columns returns the numeric column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether a numeric column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the values of a numeric column in row order.
// Callers must not mutate the returned slice.
func (t *Table) Column(name string) ([]*float64, bool) {
	values, ok := t.columns[name]
	return values, ok
}

// Date returns the date of row i.
func (t *Table) Date(i int) time.Time {
	return t.dates[i]
}

// Record materializes row i.
func (t *Table) Record(i int) Record {
	values := make(map[string]*float64, len(t.order))
	for _, name := range t.order {
		values[name] = t.columns[name][i]
	}
	return Record{Date: t.dates[i], Values: values}
}

// Records materializes every row in order.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}
