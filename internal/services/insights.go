package services

import (
	"errors"
	"fmt"

	"github.com/sycno15/weather-data-analyser/internal/analysis"
)

// TemperatureInsight is the narrative temperature block of the insights
// panel.
type TemperatureInsight struct {
	AverageC float64        `json:"average_c"`
	Trend    analysis.Trend `json:"trend"`
	Summary  string         `json:"summary"`
}

// Insights is the plain-structured narrative the dashboards render as the
// "Quick Insights" panel.
type Insights struct {
	DatasetID   string                   `json:"dataset_id"`
	Rows        int                      `json:"rows"`
	Temperature *TemperatureInsight      `json:"temperature,omitempty"`
	Seasons     []analysis.SeasonAverage `json:"seasons,omitempty"`
}

// Insights composes the narrative panel from the core aggregates. The
// temperature and seasonal blocks only appear when the dataset carries
// temperature observations; other columns never contribute here.
func (a *Analyzer) Insights(id string) (*Insights, error) {
	ds, err := a.Dataset(id)
	if err != nil {
		return nil, err
	}
	if ds.Table.Len() == 0 {
		return nil, analysis.ErrEmptyTable
	}

	out := &Insights{
		DatasetID: ds.ID,
		Rows:      ds.Table.Len(),
	}

	trend, err := analysis.ClassifyTrend(ds.Table)
	if err != nil {
		var notFound *analysis.ColumnNotFoundError
		var allNull *analysis.AllNullColumnError
		if errors.As(err, &notFound) || errors.As(err, &allNull) {
			return out, nil
		}
		return nil, err
	}

	out.Temperature = &TemperatureInsight{
		AverageC: trend.OverallMean,
		Trend:    trend.Trend,
		Summary: fmt.Sprintf("The average temperature is %.2f°C and the recent trend shows %s.",
			trend.OverallMean, trend.Trend),
	}

	seasons, err := analysis.SeasonalAverage(ds.Table)
	if err != nil {
		return nil, err
	}
	out.Seasons = seasons

	return out, nil
}
