package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// TemperatureColumn is the column the seasonal and trend aggregations
// operate on.
const TemperatureColumn = "temperature"

// Season is one of the four fixed calendar-season buckets.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// seasonOrder fixes the stable base order used when seasonal means tie.
var seasonOrder = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// SeasonOf maps a calendar month to its season. The mapping is fixed
// Northern-Hemisphere bucketing regardless of where the data was measured.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// MonthlyMean is the mean of one column over one calendar-month bucket.
type MonthlyMean struct {
	Month time.Month `json:"month"`
	Mean  float64    `json:"mean"`
}

// MonthlyAverage groups rows by calendar month (1-12, years collapse into
// the same bucket) and returns the per-month mean of the given column in
// ascending month order. Months with no observations are omitted rather
// than reported as zero.
func MonthlyAverage(t *table.Table, column string) ([]MonthlyMean, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	values, ok := t.Column(column)
	if !ok {
		return nil, &ColumnNotFoundError{Column: column}
	}

	buckets := make(map[time.Month][]float64)
	for i, v := range values {
		if v == nil {
			continue
		}
		m := t.Date(i).Month()
		buckets[m] = append(buckets[m], *v)
	}

	out := make([]MonthlyMean, 0, len(buckets))
	for m := time.January; m <= time.December; m++ {
		observed, ok := buckets[m]
		if !ok {
			continue
		}
		mean, err := stats.Mean(stats.Float64Data(observed))
		if err != nil {
			return nil, fmt.Errorf("averaging month %d of column %q: %w", m, column, err)
		}
		out = append(out, MonthlyMean{Month: m, Mean: mean})
	}

	return out, nil
}

// SeasonAverage is the mean temperature of one season bucket.
type SeasonAverage struct {
	Season Season  `json:"season"`
	Mean   float64 `json:"mean"`
}

// SeasonalAverage buckets rows into the four fixed seasons and returns the
// mean temperature per season, sorted by descending mean. Seasons with no
// observations are omitted. Ties keep the Winter/Spring/Summer/Fall base
// order.
func SeasonalAverage(t *table.Table) ([]SeasonAverage, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	temps, ok := t.Column(TemperatureColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: TemperatureColumn}
	}

	buckets := make(map[Season][]float64)
	for i, v := range temps {
		if v == nil {
			continue
		}
		s := SeasonOf(t.Date(i).Month())
		buckets[s] = append(buckets[s], *v)
	}

	out := make([]SeasonAverage, 0, len(buckets))
	for _, s := range seasonOrder {
		observed, ok := buckets[s]
		if !ok {
			continue
		}
		mean, err := stats.Mean(stats.Float64Data(observed))
		if err != nil {
			return nil, fmt.Errorf("averaging season %s: %w", s, err)
		}
		out = append(out, SeasonAverage{Season: s, Mean: mean})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mean > out[j].Mean
	})

	return out, nil
}
