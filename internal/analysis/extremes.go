package analysis

import (
	"fmt"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// Direction selects which end of a column an extreme lookup targets.
type Direction string

const (
	DirectionMax Direction = "max"
	DirectionMin Direction = "min"
)

// ParseDirection validates a direction supplied as a string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionMax, DirectionMin:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("direction must be %q or %q, got %q", DirectionMax, DirectionMin, s)
	}
}

// ExtremeRecord is the full row achieving the extreme value of a column.
// Role is an optional presentation tag (hottest, coldest, wettest,
// windiest) filled in by callers that know what the lookup means.
type ExtremeRecord struct {
	Role      string       `json:"role,omitempty"`
	Column    string       `json:"column"`
	Direction Direction    `json:"direction"`
	Value     float64      `json:"value"`
	Record    table.Record `json:"record"`
}

// FindExtremeDay returns the row holding the maximum (or minimum) value of
// the given column. When several rows share the extreme value the first
// one in table order wins; the comparison is positional, not date-based.
func FindExtremeDay(t *table.Table, column string, dir Direction) (ExtremeRecord, error) {
	if t.Len() == 0 {
		return ExtremeRecord{}, ErrEmptyTable
	}

	values, ok := t.Column(column)
	if !ok {
		return ExtremeRecord{}, &ColumnNotFoundError{Column: column}
	}

	best := -1
	for i, v := range values {
		if v == nil {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		switch dir {
		case DirectionMax:
			if *v > *values[best] {
				best = i
			}
		case DirectionMin:
			if *v < *values[best] {
				best = i
			}
		default:
			return ExtremeRecord{}, fmt.Errorf("unknown direction %q", dir)
		}
	}

	if best == -1 {
		return ExtremeRecord{}, &AllNullColumnError{Column: column}
	}

	return ExtremeRecord{
		Column:    column,
		Direction: dir,
		Value:     *values[best],
		Record:    t.Record(best),
	}, nil
}
