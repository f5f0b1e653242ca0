package analysis

import (
	"encoding/json"
	"math"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// Trend is the coarse warming/cooling label derived from comparing the
// recent mean temperature against the whole-table mean.
type Trend string

const (
	TrendWarming Trend = "warming"
	TrendCooling Trend = "cooling"
)

// trendWindow is the number of trailing rows treated as "recent".
const trendWindow = 30

// TrendResult carries the classification together with the two means it
// was derived from, so callers can render the comparison.
type TrendResult struct {
	Trend       Trend   `json:"trend"`
	OverallMean float64 `json:"overall_mean"`
	RecentMean  float64 `json:"recent_mean"`
	Window      int     `json:"window"`
}

// MarshalJSON renders an undefined mean (a recent window with no
// observations) as null instead of the unencodable NaN.
func (r TrendResult) MarshalJSON() ([]byte, error) {
	type alias struct {
		Trend       Trend    `json:"trend"`
		OverallMean *float64 `json:"overall_mean"`
		RecentMean  *float64 `json:"recent_mean"`
		Window      int      `json:"window"`
	}

	out := alias{Trend: r.Trend, Window: r.Window}
	if !math.IsNaN(r.OverallMean) {
		v := r.OverallMean
		out.OverallMean = &v
	}
	if !math.IsNaN(r.RecentMean) {
		v := r.RecentMean
		out.RecentMean = &v
	}
	return json.Marshal(out)
}

// ClassifyTrend compares the mean temperature of the last min(30, rows)
// rows in table order against the mean over all rows. Strictly greater
// classifies as warming, anything else as cooling. For tables of 30 rows
// or fewer the recent window is the whole table, so both means coincide
// and the result is always cooling.
func ClassifyTrend(t *table.Table) (TrendResult, error) {
	if t.Len() == 0 {
		return TrendResult{}, ErrEmptyTable
	}

	temps, ok := t.Column(TemperatureColumn)
	if !ok {
		return TrendResult{}, &ColumnNotFoundError{Column: TemperatureColumn}
	}
	if observations(temps) == 0 {
		return TrendResult{}, &AllNullColumnError{Column: TemperatureColumn}
	}

	window := trendWindow
	if t.Len() < window {
		window = t.Len()
	}

	overall := meanSkippingNulls(temps)
	recent := meanSkippingNulls(temps[len(temps)-window:])

	trend := TrendCooling
	if recent > overall {
		trend = TrendWarming
	}

	return TrendResult{
		Trend:       trend,
		OverallMean: overall,
		RecentMean:  recent,
		Window:      window,
	}, nil
}

// meanSkippingNulls averages the present values of a slice. With zero
// present values the result is NaN (0/0), which compares false against
// anything and therefore classifies as cooling.
func meanSkippingNulls(values []*float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	return sum / float64(n)
}

func observations(values []*float64) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}
