package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/analysis"
	"github.com/sycno15/weather-data-analyser/internal/ingest"
	"github.com/sycno15/weather-data-analyser/internal/table"
)

const sampleCSV = `date,temperature,precipitation,wind_speed,pressure
2024-01-01,10,0,12,1013
2024-01-02,11,2.5,8,1011
2024-07-01,30,0,20,1005
2024-07-02,31,,22,1004
`

func newTestAnalyzer(t *testing.T, providers ...HistoryProvider) *Analyzer {
	t.Helper()
	store := NewDatasetStore(time.Hour, 16, zap.NewNop())
	t.Cleanup(store.Stop)
	return NewAnalyzer(store, providers, zap.NewNop())
}

func TestCreateFromCSVAndAggregate(t *testing.T) {
	a := newTestAnalyzer(t)

	ds, err := a.CreateFromCSV(strings.NewReader(sampleCSV), "test.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Source != "upload" {
		t.Errorf("source = %q, want upload", ds.Source)
	}

	summary, err := a.Summary(ds.ID)
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if summary["temperature"].Count != 4 {
		t.Errorf("temperature count = %d, want 4", summary["temperature"].Count)
	}
	if summary["precipitation"].Count != 3 {
		t.Errorf("precipitation count = %d, want 3 (one null)", summary["precipitation"].Count)
	}

	seasonal, err := a.Seasonal(ds.ID)
	if err != nil {
		t.Fatalf("seasonal error: %v", err)
	}
	if len(seasonal) != 2 || seasonal[0].Season != analysis.SeasonSummer {
		t.Errorf("seasonal = %+v, want Summer first of two", seasonal)
	}
}

func TestExtremesPanel(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader(sampleCSV), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	panel, err := a.Extremes(ds.ID)
	if err != nil {
		t.Fatalf("extremes error: %v", err)
	}

	roles := make(map[string]analysis.ExtremeRecord, len(panel))
	for _, rec := range panel {
		roles[rec.Role] = rec
	}

	if got := roles["hottest"]; got.Value != 31 {
		t.Errorf("hottest = %v, want 31", got.Value)
	}
	if got := roles["coldest"]; got.Value != 10 {
		t.Errorf("coldest = %v, want 10", got.Value)
	}
	if got := roles["wettest"]; got.Value != 2.5 {
		t.Errorf("wettest = %v, want 2.5", got.Value)
	}
	if got := roles["windiest"]; got.Value != 22 {
		t.Errorf("windiest = %v, want 22", got.Value)
	}
}

func TestExtremesPanelSkipsMissingColumns(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader("date,temperature\n2024-01-01,5\n"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	panel, err := a.Extremes(ds.ID)
	if err != nil {
		t.Fatalf("extremes error: %v", err)
	}
	if len(panel) != 2 {
		t.Fatalf("panel has %d entries, want 2 (hottest+coldest only)", len(panel))
	}

	// A single requested extreme on a missing column is still an error.
	_, err = a.Extreme(ds.ID, "precipitation", analysis.DirectionMax)
	var notFound *analysis.ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ColumnNotFoundError", err)
	}
}

func TestInsights(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader(sampleCSV), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insights, err := a.Insights(ds.ID)
	if err != nil {
		t.Fatalf("insights error: %v", err)
	}
	if insights.Temperature == nil {
		t.Fatal("temperature insight missing")
	}
	if insights.Temperature.Trend != analysis.TrendCooling {
		t.Errorf("trend = %s, want cooling (4 rows < window)", insights.Temperature.Trend)
	}
	if !strings.Contains(insights.Temperature.Summary, "cooling") {
		t.Errorf("summary %q does not mention the trend", insights.Temperature.Summary)
	}
	if len(insights.Seasons) != 2 {
		t.Errorf("seasons = %+v, want 2 entries", insights.Seasons)
	}
}

func TestInsightsWithoutTemperature(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader("date,pressure\n2024-01-01,1013\n"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insights, err := a.Insights(ds.ID)
	if err != nil {
		t.Fatalf("insights error: %v", err)
	}
	if insights.Temperature != nil || insights.Seasons != nil {
		t.Error("temperature-free dataset should yield an empty narrative")
	}
	if insights.Rows != 1 {
		t.Errorf("rows = %d, want 1", insights.Rows)
	}
}

func TestInsightsAllNullTemperature(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader("date,temperature\n2024-01-01,\n2024-01-02,\n"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insights, err := a.Insights(ds.ID)
	if err != nil {
		t.Fatalf("insights error: %v", err)
	}
	if insights.Temperature != nil {
		t.Error("all-null temperature should yield no temperature narrative")
	}
	if insights.Rows != 2 {
		t.Errorf("rows = %d, want 2", insights.Rows)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	a := newTestAnalyzer(t)
	ds, err := a.CreateFromCSV(strings.NewReader(sampleCSV), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := a.WriteCSV(ds.ID, &buf); err != nil {
		t.Fatalf("export error: %v", err)
	}

	reparsed, err := ingest.ParseCSV(&buf)
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}
	if reparsed.Len() != 4 {
		t.Errorf("round-tripped rows = %d, want 4", reparsed.Len())
	}
	precip, _ := reparsed.Column("precipitation")
	if precip[3] != nil {
		t.Error("null survives the round trip as an empty cell")
	}
}

func TestDatasetNotFound(t *testing.T) {
	a := newTestAnalyzer(t)
	if _, err := a.Summary("nope"); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("error = %v, want ErrDatasetNotFound", err)
	}
}

type stubProvider struct {
	name string
	tbl  *table.Table
	err  error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) FetchDailyHistory(_ context.Context, _ string, _ int) (*table.Table, error) {
	return p.tbl, p.err
}

func TestFetchCityProviderFallback(t *testing.T) {
	v := 20.0
	tbl, err := table.New(
		[]time.Time{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		[]string{"temperature"},
		map[string][]*float64{"temperature": {&v}},
	)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	failing := &stubProvider{name: "broken", err: fmt.Errorf("boom")}
	working := &stubProvider{name: "stub", tbl: tbl}
	a := newTestAnalyzer(t, failing, working)

	ds, err := a.FetchCity(context.Background(), "Nagpur", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Source != "stub" {
		t.Errorf("source = %q, want fallback provider stub", ds.Source)
	}
	if ds.ID != CityDatasetID("Nagpur") {
		t.Errorf("id = %q, want stable city id", ds.ID)
	}

	// Re-fetch replaces the session under the same ID.
	again, err := a.FetchCity(context.Background(), "Nagpur", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != ds.ID {
		t.Errorf("re-fetch changed the dataset ID: %q vs %q", again.ID, ds.ID)
	}

	// All providers failing is an error.
	onlyBroken := newTestAnalyzer(t, failing)
	if _, err := onlyBroken.FetchCity(context.Background(), "Nagpur", 30); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestDatasetStoreTTLAndEviction(t *testing.T) {
	store := NewDatasetStore(10*time.Millisecond, 2, zap.NewNop())
	defer store.Stop()

	v := 1.0
	tbl, _ := table.New(
		[]time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]string{"temperature"},
		map[string][]*float64{"temperature": {&v}},
	)

	for i := 0; i < 3; i++ {
		store.Put(&Dataset{ID: fmt.Sprintf("ds-%d", i), Table: tbl})
	}
	if got := len(store.List()); got != 2 {
		t.Errorf("store holds %d datasets, want 2 (size cap)", got)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get("ds-2"); ok {
		t.Error("expired dataset still retrievable")
	}
}

func TestDatasetStoreRefreshAfterExpiry(t *testing.T) {
	store := NewDatasetStore(15*time.Millisecond, 4, zap.NewNop())
	defer store.Stop()

	v := 1.0
	tbl, _ := table.New(
		[]time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]string{"temperature"},
		map[string][]*float64{"temperature": {&v}},
	)

	store.Put(&Dataset{ID: "city-nagpur", Table: tbl})
	time.Sleep(30 * time.Millisecond)
	if _, ok := store.Get("city-nagpur"); ok {
		t.Fatal("expired dataset still retrievable")
	}

	// Re-putting the same ID must yield a live entry; the expiry path of
	// Get may not remove a refreshed session.
	store.Put(&Dataset{ID: "city-nagpur", Table: tbl})
	if _, ok := store.Get("city-nagpur"); !ok {
		t.Error("refreshed dataset not retrievable")
	}
}
