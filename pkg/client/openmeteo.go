package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// DefaultArchiveURL is the Open-Meteo historical-weather endpoint.
const DefaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

// archiveDailyParams are the daily series requested from the archive,
// in the order they map onto table columns below.
var archiveDailyParams = []string{
	"temperature_2m_mean",
	"precipitation_sum",
	"windspeed_10m_max",
	"pressure_msl_mean",
	"relative_humidity_2m_mean",
}

// OpenMeteoClient fetches daily historical weather from the Open-Meteo
// archive API. No API key required.
type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

type openMeteoArchiveResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     struct {
		Time                   []string   `json:"time"`
		Temperature2MMean      []*float64 `json:"temperature_2m_mean"`
		PrecipitationSum       []*float64 `json:"precipitation_sum"`
		WindSpeed10MMax        []*float64 `json:"windspeed_10m_max"`
		PressureMSLMean        []*float64 `json:"pressure_msl_mean"`
		RelativeHumidity2MMean []*float64 `json:"relative_humidity_2m_mean"`
	} `json:"daily"`
}

func NewOpenMeteoClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultArchiveURL
	}
	return &OpenMeteoClient{
		BaseClient: NewBaseClient("openmeteo-archive", config, logger),
		baseURL:    baseURL,
	}
}

func (c *OpenMeteoClient) Name() string {
	return "open-meteo"
}

// FetchDailyHistory retrieves the last `days` days of daily observations
// for a catalog city and normalizes them into the standard column
// contract. The archive lags a few days behind real time; trailing gaps
// come back as nulls and stay nulls in the table.
func (c *OpenMeteoClient) FetchDailyHistory(ctx context.Context, city string, days int) (*table.Table, error) {
	loc, ok := LookupCity(city)
	if !ok {
		return nil, fmt.Errorf("city %q is not in the catalog", city)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%.4f", loc.Lon))
	values.Set("start_date", start.Format("2006-01-02"))
	values.Set("end_date", end.Format("2006-01-02"))
	values.Set("daily", strings.Join(archiveDailyParams, ","))
	values.Set("timezone", "UTC")

	data, err := c.GetWithRetry(ctx, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive data: %w", err)
	}

	var response openMeteoArchiveResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse archive response: %w", err)
	}

	n := len(response.Daily.Time)
	if n == 0 {
		return nil, fmt.Errorf("archive returned no daily data for %s", city)
	}

	dates := make([]time.Time, n)
	for i, s := range response.Daily.Time {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("archive returned unparseable date %q: %w", s, err)
		}
		dates[i] = date
	}

	columns := map[string][]*float64{
		"temperature":   padSeries(response.Daily.Temperature2MMean, n),
		"precipitation": padSeries(response.Daily.PrecipitationSum, n),
		"wind_speed":    padSeries(response.Daily.WindSpeed10MMax, n),
		"pressure":      padSeries(response.Daily.PressureMSLMean, n),
		"humidity":      padSeries(response.Daily.RelativeHumidity2MMean, n),
	}

	return table.New(dates,
		[]string{"temperature", "precipitation", "wind_speed", "pressure", "humidity"},
		columns)
}

// padSeries brings a daily series to the length of the time axis, filling
// missing trailing entries with nulls.
func padSeries(series []*float64, n int) []*float64 {
	if len(series) >= n {
		return series[:n]
	}
	out := make([]*float64, n)
	copy(out, series)
	return out
}
