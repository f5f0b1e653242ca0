package table

import (
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }

func TestNewValidatesShape(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		order   []string
		columns map[string][]*float64
		wantErr bool
	}{
		{
			name:    "valid",
			order:   []string{"temperature"},
			columns: map[string][]*float64{"temperature": {fp(1), fp(2)}},
		},
		{
			name:    "length mismatch",
			order:   []string{"temperature"},
			columns: map[string][]*float64{"temperature": {fp(1)}},
			wantErr: true,
		},
		{
			name:    "order names missing column",
			order:   []string{"temperature", "pressure"},
			columns: map[string][]*float64{"temperature": {fp(1), fp(2)}},
			wantErr: true,
		},
		{
			name:    "reserved date name",
			order:   []string{"date"},
			columns: map[string][]*float64{"date": {fp(1), fp(2)}},
			wantErr: true,
		},
		{
			name:    "duplicate column",
			order:   []string{"temperature", "temperature"},
			columns: map[string][]*float64{"temperature": {fp(1), fp(2)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(dates, tt.order, tt.columns)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestZeroRowTableIsConstructible(t *testing.T) {
	tbl, err := New(nil, []string{"temperature"}, map[string][]*float64{"temperature": nil})
	if err != nil {
		t.Fatalf("zero-row table must construct: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestRecordMaterialization(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	tbl, err := New(dates, []string{"temperature", "wind_speed"}, map[string][]*float64{
		"temperature": {fp(18), nil},
		"wind_speed":  {fp(12), fp(20)},
	})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	rec := tbl.Record(1)
	if !rec.Date.Equal(dates[1]) {
		t.Errorf("record date = %v, want %v", rec.Date, dates[1])
	}
	if rec.Values["temperature"] != nil {
		t.Error("missing temperature should materialize as nil")
	}
	if got := rec.Values["wind_speed"]; got == nil || *got != 20 {
		t.Errorf("wind_speed = %v, want 20", got)
	}

	records := tbl.Records()
	if len(records) != 2 {
		t.Fatalf("Records() len = %d, want 2", len(records))
	}
}

func TestColumnsOrderIsStable(t *testing.T) {
	dates := []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tbl, err := New(dates, []string{"pressure", "temperature", "humidity"}, map[string][]*float64{
		"pressure":    {fp(1000)},
		"temperature": {fp(20)},
		"humidity":    {fp(60)},
	})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	want := []string{"pressure", "temperature", "humidity"}
	got := tbl.Columns()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Columns() = %v, want %v", got, want)
		}
	}
}
