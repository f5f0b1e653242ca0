// Package ingest turns external data (uploaded CSV files, synthetic
// sample data) into weather tables. Provider-fetched data enters through
// pkg/client instead.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseCSV reads a delimited file with a header row containing a date
// column plus any number of numeric columns and builds a table from it.
// Empty cells become nulls; anything else that fails to parse as a float
// aborts the parse.
func ParseCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	dateIdx := -1
	var order []string
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		header[i] = name
		if name == table.DateColumn {
			if dateIdx != -1 {
				return nil, fmt.Errorf("multiple %q columns in header", table.DateColumn)
			}
			dateIdx = i
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("blank column name at position %d", i+1)
		}
		order = append(order, name)
	}
	if dateIdx == -1 {
		return nil, fmt.Errorf("header must contain a %q column", table.DateColumn)
	}

	var dates []time.Time
	columns := make(map[string][]*float64, len(order))
	for _, name := range order {
		columns[name] = nil
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line+1, err)
		}
		line++

		date, err := parseDate(strings.TrimSpace(row[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		dates = append(dates, date)

		for i, name := range header {
			if i == dateIdx {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				columns[name] = append(columns[name], nil)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %q is not numeric", line, name, cell)
			}
			columns[name] = append(columns[name], &v)
		}
	}

	return table.New(dates, order, columns)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}
