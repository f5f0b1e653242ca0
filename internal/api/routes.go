package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,DELETE",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/cities", handler.GetCities)

	// Dataset lifecycle
	datasets := api.Group("/datasets")
	datasets.Get("/", handler.ListDatasets)
	datasets.Post("/", handler.CreateDataset)
	datasets.Post("/fetch", handler.FetchDataset)
	datasets.Post("/sample", handler.CreateSample)
	datasets.Delete("/:id", handler.DeleteDataset)

	// Aggregations over a dataset
	datasets.Get("/:id/summary", handler.GetSummary)
	datasets.Get("/:id/monthly", handler.GetMonthly)
	datasets.Get("/:id/seasonal", handler.GetSeasonal)
	datasets.Get("/:id/extremes", handler.GetExtremes)
	datasets.Get("/:id/trend", handler.GetTrend)
	datasets.Get("/:id/insights", handler.GetInsights)
	datasets.Get("/:id/records", handler.GetRecords)
	datasets.Get("/:id/export", handler.ExportDataset)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
