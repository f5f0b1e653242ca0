package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/api"
	"github.com/sycno15/weather-data-analyser/internal/config"
	"github.com/sycno15/weather-data-analyser/internal/scheduler"
	"github.com/sycno15/weather-data-analyser/internal/services"
	"github.com/sycno15/weather-data-analyser/pkg/client"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Data Analyser Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	clientConfig := client.ClientConfig{
		Timeout:        10 * time.Second,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.Retry.BreakerTimeout,
	}

	// History providers: Meteostat first when a key is configured,
	// Open-Meteo archive always available as fallback.
	var providers []services.HistoryProvider
	if cfg.Providers.MeteostatAPIKey != "" {
		providers = append(providers, client.NewMeteostatClient(
			cfg.Providers.MeteostatAPIKey,
			cfg.Providers.MeteostatURL,
			clientConfig,
			logger,
		))
		logger.Info("Meteostat provider initialized")
	}
	providers = append(providers, client.NewOpenMeteoClient(
		cfg.Providers.OpenMeteoArchiveURL,
		clientConfig,
		logger,
	))
	logger.Info("Open-Meteo archive provider initialized")

	// Dataset sessions + aggregation service
	store := services.NewDatasetStore(cfg.Store.TTL, cfg.Store.MaxSize, logger)
	analyzer := services.NewAnalyzer(store, providers, logger)

	// Background refresh of default cities
	refresher := scheduler.NewRefresher(
		analyzer,
		cfg.Refresher.DefaultCities,
		cfg.Refresher.Interval,
		cfg.Refresher.HistoryDays,
		logger,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    32 * 1024 * 1024, // uploaded CSV files
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(analyzer, logger)
	api.SetupRoutes(app, handler, logger)

	// Start refresher
	if err := refresher.Start(); err != nil {
		logger.Fatal("Failed to start refresher", zap.Error(err))
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop background work
	refresher.Stop()
	store.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
