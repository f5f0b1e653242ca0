package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/services"
	"github.com/sycno15/weather-data-analyser/internal/table"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) FetchDailyHistory(_ context.Context, _ string, days int) (*table.Table, error) {
	v := 25.0
	dates := make([]time.Time, days)
	temps := make([]*float64, days)
	for i := range dates {
		dates[i] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		temps[i] = &v
	}
	return table.New(dates, []string{"temperature"}, map[string][]*float64{"temperature": temps})
}

func TestRefresherWarmsCityDatasets(t *testing.T) {
	store := services.NewDatasetStore(time.Hour, 8, zap.NewNop())
	defer store.Stop()
	analyzer := services.NewAnalyzer(store, []services.HistoryProvider{stubProvider{}}, zap.NewNop())

	r := NewRefresher(analyzer, []string{"Nagpur"}, time.Minute, 7, zap.NewNop())
	if err := r.Start(); err != nil {
		t.Fatalf("start error: %v", err)
	}
	defer r.Stop()

	// The initial warm-up run happens asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	id := services.CityDatasetID("Nagpur")
	for {
		if _, err := analyzer.Dataset(id); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("city dataset was not warmed in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ds, err := analyzer.Dataset(id)
	if err != nil {
		t.Fatalf("dataset lookup: %v", err)
	}
	if ds.Table.Len() != 7 {
		t.Errorf("refreshed dataset rows = %d, want 7", ds.Table.Len())
	}
}

func TestRefresherNoCitiesIsIdle(t *testing.T) {
	store := services.NewDatasetStore(time.Hour, 8, zap.NewNop())
	defer store.Stop()
	analyzer := services.NewAnalyzer(store, nil, zap.NewNop())

	r := NewRefresher(analyzer, nil, time.Minute, 7, zap.NewNop())
	if err := r.Start(); err != nil {
		t.Fatalf("start error: %v", err)
	}
	r.Stop()
}
