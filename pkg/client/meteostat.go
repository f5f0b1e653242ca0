package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// DefaultMeteostatURL is the Meteostat point-daily endpoint (RapidAPI).
const DefaultMeteostatURL = "https://meteostat.p.rapidapi.com/point/daily"

// MeteostatClient fetches daily historical weather from Meteostat.
// Requires a RapidAPI key; it is only wired in when one is configured.
type MeteostatClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type meteostatDailyResponse struct {
	Data []struct {
		Date string   `json:"date"`
		Tavg *float64 `json:"tavg"`
		Prcp *float64 `json:"prcp"`
		Wspd *float64 `json:"wspd"`
		Pres *float64 `json:"pres"`
	} `json:"data"`
}

func NewMeteostatClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *MeteostatClient {
	if baseURL == "" {
		baseURL = DefaultMeteostatURL
	}
	return &MeteostatClient{
		BaseClient: NewBaseClient("meteostat", config, logger),
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

func (c *MeteostatClient) Name() string {
	return "meteostat"
}

// FetchDailyHistory retrieves the last `days` days of daily observations
// for a catalog city. Meteostat's point-daily series carries no humidity,
// so the resulting table has the four base columns only.
func (c *MeteostatClient) FetchDailyHistory(ctx context.Context, city string, days int) (*table.Table, error) {
	loc, ok := LookupCity(city)
	if !ok {
		return nil, fmt.Errorf("city %q is not in the catalog", city)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.4f", loc.Lat))
	values.Set("lon", fmt.Sprintf("%.4f", loc.Lon))
	values.Set("start", start.Format("2006-01-02"))
	values.Set("end", end.Format("2006-01-02"))

	header := http.Header{}
	header.Set("x-rapidapi-key", c.apiKey)
	header.Set("x-rapidapi-host", "meteostat.p.rapidapi.com")

	data, err := c.GetWithRetry(ctx, c.baseURL+"?"+values.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meteostat data: %w", err)
	}

	var response meteostatDailyResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse meteostat response: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("meteostat returned no daily data for %s", city)
	}

	n := len(response.Data)
	dates := make([]time.Time, n)
	temperature := make([]*float64, n)
	precipitation := make([]*float64, n)
	windSpeed := make([]*float64, n)
	pressure := make([]*float64, n)

	for i, row := range response.Data {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("meteostat returned unparseable date %q: %w", row.Date, err)
		}
		dates[i] = date
		temperature[i] = row.Tavg
		precipitation[i] = row.Prcp
		windSpeed[i] = row.Wspd
		pressure[i] = row.Pres
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
