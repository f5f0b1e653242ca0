package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// SummaryStat holds descriptive statistics for one numeric column,
// computed over its non-null values.
type SummaryStat struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// MarshalJSON renders an undefined standard deviation (fewer than two
// observations) as null instead of the unencodable NaN.
func (s SummaryStat) MarshalJSON() ([]byte, error) {
	type alias struct {
		Mean   float64  `json:"mean"`
		Median float64  `json:"median"`
		StdDev *float64 `json:"std_dev"`
		Min    float64  `json:"min"`
		Max    float64  `json:"max"`
		Count  int      `json:"count"`
	}

	out := alias{
		Mean:   s.Mean,
		Median: s.Median,
		Min:    s.Min,
		Max:    s.Max,
		Count:  s.Count,
	}
	if !math.IsNaN(s.StdDev) {
		sd := s.StdDev
		out.StdDev = &sd
	}
	return json.Marshal(out)
}

// SummaryStatistics computes mean, median, sample standard deviation,
// min and max for every numeric column of the table. Columns whose values
// are all null are silently omitted; a column with a single observation
// gets a NaN standard deviation.
func SummaryStatistics(t *table.Table) (map[string]SummaryStat, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	out := make(map[string]SummaryStat)
	for _, name := range t.Columns() {
		values, _ := t.Column(name)

		observed := nonNull(values)
		if len(observed) == 0 {
			continue
		}

		stat, err := summarize(observed)
		if err != nil {
			return nil, fmt.Errorf("summarizing column %q: %w", name, err)
		}
		out[name] = stat
	}

	return out, nil
}

func summarize(observed []float64) (SummaryStat, error) {
	data := stats.Float64Data(observed)

	mean, err := data.Mean()
	if err != nil {
		return SummaryStat{}, err
	}
	median, err := data.Median()
	if err != nil {
		return SummaryStat{}, err
	}
	min, err := data.Min()
	if err != nil {
		return SummaryStat{}, err
	}
	max, err := data.Max()
	if err != nil {
		return SummaryStat{}, err
	}

	// Sample standard deviation needs at least two observations.
	sd := math.NaN()
	if len(observed) >= 2 {
		sd, err = data.StandardDeviationSample()
		if err != nil {
			return SummaryStat{}, err
		}
	}

	return SummaryStat{
		Mean:   mean,
		Median: median,
		StdDev: sd,
		Min:    min,
		Max:    max,
		Count:  len(observed),
	}, nil
}

// nonNull collects the present values of a column in row order.
func nonNull(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
