package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Providers struct {
		OpenMeteoArchiveURL string
		MeteostatAPIKey     string
		MeteostatURL        string
	}

	Refresher struct {
		Interval      time.Duration
		DefaultCities []string
		HistoryDays   int
	}

	Store struct {
		TTL     time.Duration
		MaxSize int
	}

	Retry struct {
		MaxRetries     int
		Delay          time.Duration
		Multiplier     float64
		BreakerTimeout time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Provider configuration
	cfg.Providers.OpenMeteoArchiveURL = getEnv("OPENMETEO_ARCHIVE_URL", "")
	cfg.Providers.MeteostatAPIKey = getEnv("METEOSTAT_API_KEY", "")
	cfg.Providers.MeteostatURL = getEnv("METEOSTAT_URL", "")

	// Refresher configuration
	cfg.Refresher.Interval = parseDuration(getEnv("REFRESH_INTERVAL", "6h"))
	cities := getEnv("DEFAULT_CITIES", "")
	if cities != "" {
		for _, city := range strings.Split(cities, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.Refresher.DefaultCities = append(cfg.Refresher.DefaultCities, city)
			}
		}
	}
	cfg.Refresher.HistoryDays = parseInt(getEnv("REFRESH_HISTORY_DAYS", "90"))

	// Dataset store configuration
	cfg.Store.TTL = parseDuration(getEnv("DATASET_TTL", "2h"))
	cfg.Store.MaxSize = parseInt(getEnv("MAX_DATASETS", "100"))

	// Retry / circuit breaker configuration
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "3"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))
	cfg.Retry.BreakerTimeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
