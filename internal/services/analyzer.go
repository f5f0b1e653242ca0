package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/analysis"
	"github.com/sycno15/weather-data-analyser/internal/ingest"
	"github.com/sycno15/weather-data-analyser/internal/table"
	"github.com/sycno15/weather-data-analyser/pkg/client"
)

// ErrDatasetNotFound is returned when the requested dataset ID is unknown
// or its session has expired.
var ErrDatasetNotFound = errors.New("dataset not found")

// HistoryProvider is a source of historical daily weather for a catalog
// city.
type HistoryProvider interface {
	Name() string
	FetchDailyHistory(ctx context.Context, city string, days int) (*table.Table, error)
}

// Analyzer owns dataset sessions and runs the aggregation core over them.
// Aggregations themselves are pure functions over immutable tables; the
// analyzer only resolves IDs and composes results.
type Analyzer struct {
	store     *DatasetStore
	providers []HistoryProvider
	logger    *zap.Logger
}

func NewAnalyzer(store *DatasetStore, providers []HistoryProvider, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		store:     store,
		providers: providers,
		logger:    logger,
	}
}

// CreateFromCSV parses an uploaded CSV body into a new dataset session.
func (a *Analyzer) CreateFromCSV(r io.Reader, name string) (*Dataset, error) {
	tbl, err := ingest.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing upload: %w", err)
	}
	if name == "" {
		name = "upload"
	}

	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    "upload",
		CreatedAt: time.Now().UTC(),
		Table:     tbl,
	}
	a.store.Put(ds)

	a.logger.Info("Dataset created from upload",
		zap.String("id", ds.ID),
		zap.Int("rows", tbl.Len()),
		zap.Strings("columns", tbl.Columns()))

	return ds, nil
}

// CreateSample builds a synthetic dataset session.
func (a *Analyzer) CreateSample(days int, seed int64) (*Dataset, error) {
	tbl, err := ingest.SampleTable(days, seed)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("sample-%dd", days),
		Source:    "sample",
		CreatedAt: time.Now().UTC(),
		Table:     tbl,
	}
	a.store.Put(ds)

	a.logger.Info("Sample dataset created",
		zap.String("id", ds.ID),
		zap.Int("days", days),
		zap.Int64("seed", seed))

	return ds, nil
}

// FetchCity pulls historical weather for a catalog city from the first
// provider that succeeds. City datasets live under a stable ID so a
// re-fetch replaces the previous session instead of stacking up.
func (a *Analyzer) FetchCity(ctx context.Context, city string, days int) (*Dataset, error) {
	if len(a.providers) == 0 {
		return nil, fmt.Errorf("no history providers configured")
	}

	var lastErr error
	for _, p := range a.providers {
		tbl, err := p.FetchDailyHistory(ctx, city, days)
		if err != nil {
			a.logger.Warn("Provider fetch failed",
				zap.String("provider", p.Name()),
				zap.String("city", city),
				zap.Error(err))
			lastErr = err
			continue
		}

		ds := &Dataset{
			ID:        CityDatasetID(city),
			Name:      city,
			Source:    p.Name(),
			CreatedAt: time.Now().UTC(),
			Table:     tbl,
		}
		a.store.Put(ds)

		a.logger.Info("City dataset fetched",
			zap.String("id", ds.ID),
			zap.String("provider", p.Name()),
			zap.Int("rows", tbl.Len()))

		return ds, nil
	}

	return nil, fmt.Errorf("all providers failed for %s: %w", city, lastErr)
}

// CityDatasetID is the stable session ID a city's dataset is stored under.
func CityDatasetID(city string) string {
	return "city-" + strings.ReplaceAll(strings.ToLower(city), " ", "-")
}

// Cities lists the fetchable city catalog.
func (a *Analyzer) Cities() []client.City {
	return client.Cities
}

// Dataset resolves a dataset ID.
func (a *Analyzer) Dataset(id string) (*Dataset, error) {
	ds, ok := a.store.Get(id)
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

// Datasets lists live dataset sessions.
func (a *Analyzer) Datasets() []*Dataset {
	return a.store.List()
}

// Delete drops a dataset session.
func (a *Analyzer) Delete(id string) error {
	if _, err := a.Dataset(id); err != nil {
		return err
	}
	a.store.Delete(id)

	a.logger.Info("Dataset deleted", zap.String("id", id))
	return nil
}

// StoreStats reports store occupancy for the health endpoint.
func (a *Analyzer) StoreStats() map[string]interface{} {
	return a.store.Stats()
}

// Summary computes per-column descriptive statistics for a dataset.
func (a *Analyzer) Summary(id string) (map[string]analysis.SummaryStat, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	return analysis.SummaryStatistics(ds.Table)
}

// Monthly computes the per-calendar-month means of one column.
func (a *Analyzer) Monthly(id, column string) ([]analysis.MonthlyMean, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	return analysis.MonthlyAverage(ds.Table, column)
}

// Seasonal computes the season temperature ranking.
func (a *Analyzer) Seasonal(id string) ([]analysis.SeasonAverage, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	return analysis.SeasonalAverage(ds.Table)
}

// Extreme looks up a single requested extreme. A missing column is the
// caller's error here, unlike the panel which skips absent columns.
func (a *Analyzer) Extreme(id, column string, dir analysis.Direction) (analysis.ExtremeRecord, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return analysis.ExtremeRecord{}, err
	}
	return analysis.FindExtremeDay(ds.Table, column, dir)
}

// extremeRole ties a presentation role to its column and direction.
type extremeRole struct {
	role   string
	column string
	dir    analysis.Direction
}

var panelRoles = []extremeRole{
	{"hottest", "temperature", analysis.DirectionMax},
	{"coldest", "temperature", analysis.DirectionMin},
	{"wettest", "precipitation", analysis.DirectionMax},
	{"windiest", "wind_speed", analysis.DirectionMax},
}

// Extremes builds the extreme-days panel: hottest, coldest, wettest and
// windiest. Roles whose column the dataset does not carry (or carries
// empty) are left out of the panel.
func (a *Analyzer) Extremes(id string) ([]analysis.ExtremeRecord, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	if ds.Table.Len() == 0 {
		return nil, analysis.ErrEmptyTable
	}

	out := make([]analysis.ExtremeRecord, 0, len(panelRoles))
	for _, r := range panelRoles {
		rec, err := analysis.FindExtremeDay(ds.Table, r.column, r.dir)
		if err != nil {
			var notFound *analysis.ColumnNotFoundError
			var allNull *analysis.AllNullColumnError
			if errors.As(err, &notFound) || errors.As(err, &allNull) {
				continue
			}
			return nil, err
		}
		rec.Role = r.role
		out = append(out, rec)
	}

	return out, nil
}

// Trend classifies the dataset's temperature trend.
func (a *Analyzer) Trend(id string) (analysis.TrendResult, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return analysis.TrendResult{}, err
	}
	return analysis.ClassifyTrend(ds.Table)
}

// Records materializes the dataset's rows for the data view.
func (a *Analyzer) Records(id string) ([]table.Record, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	return ds.Table.Records(), nil
}

// WriteCSV re-exports a dataset as CSV in the ingestion column contract.
func (a *Analyzer) WriteCSV(id string, w io.Writer) error {
	ds, err := a.Dataset(id)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	columns := ds.Table.Columns()

	header := append([]string{table.DateColumn}, columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(header))
	for i := 0; i < ds.Table.Len(); i++ {
		rec := ds.Table.Record(i)
		row[0] = rec.Date.Format("2006-01-02")
		for j, col := range columns {
			if v := rec.Values[col]; v != nil {
				row[j+1] = strconv.FormatFloat(*v, 'f', -1, 64)
			} else {
				row[j+1] = ""
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
