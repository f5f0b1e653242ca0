package ingest

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// SampleTable generates a synthetic run of daily weather ending today:
// a yearly sinusoid with gaussian noise for temperature, exponential
// precipitation, Erlang-shaped wind and gaussian pressure around the
// standard atmosphere. A fixed seed gives a reproducible dataset.
func SampleTable(days int, seed int64) (*table.Table, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	rng := rand.New(rand.NewSource(seed))

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))

	dates := make([]time.Time, days)
	temperature := make([]*float64, days)
	precipitation := make([]*float64, days)
	windSpeed := make([]*float64, days)
	pressure := make([]*float64, days)

	for i := 0; i < days; i++ {
		dates[i] = start.AddDate(0, 0, i)

		seasonal := 20 + 10*math.Sin(float64(i)*2*math.Pi/365)
		temp := seasonal + rng.NormFloat64()*3
		temperature[i] = &temp

		precip := math.Max(0, rng.ExpFloat64()*2)
		precipitation[i] = &precip

		// Gamma(shape=2, scale=2) as the sum of two exponentials.
		wind := math.Max(0, (rng.ExpFloat64()+rng.ExpFloat64())*2)
		windSpeed[i] = &wind

		pres := 1013 + rng.NormFloat64()*10
		pressure[i] = &pres
	}

	return table.New(dates,
		[]string{"temperature", "precipitation", "wind_speed", "pressure"},
		map[string][]*float64{
			"temperature":   temperature,
			"precipitation": precipitation,
			"wind_speed":    windSpeed,
			"pressure":      pressure,
		})
}
