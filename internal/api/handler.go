package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/analysis"
	"github.com/sycno15/weather-data-analyser/internal/services"
	"github.com/sycno15/weather-data-analyser/pkg/client"
)

var validate = validator.New()

var startTime = time.Now()

type Handler struct {
	analyzer *services.Analyzer
	logger   *zap.Logger
}

func NewHandler(analyzer *services.Analyzer, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// respondAggregateError maps core aggregation failures onto HTTP codes:
// unknown dataset is 404, validation failures inside the core are 422.
func (h *Handler) respondAggregateError(c *fiber.Ctx, err error) error {
	var notFound *analysis.ColumnNotFoundError
	var allNull *analysis.AllNullColumnError

	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dataset not found or expired",
		})
	case errors.Is(err, analysis.ErrEmptyTable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Dataset has no rows to aggregate",
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Column not found in dataset",
			"column": notFound.Column,
		})
	case errors.As(err, &allNull):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Column holds no values",
			"column": allNull.Column,
		})
	default:
		h.logger.Error("Aggregation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Aggregation failed",
		})
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).String(),
		"store":     h.analyzer.StoreStats(),
	})
}

// GetCities handles GET /api/v1/cities
func (h *Handler) GetCities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"cities": h.analyzer.Cities(),
	})
}

// ListDatasets handles GET /api/v1/datasets
func (h *Handler) ListDatasets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"datasets": h.analyzer.Datasets(),
	})
}

// CreateDataset handles POST /api/v1/datasets with a CSV request body.
func (h *Handler) CreateDataset(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body must contain CSV data",
		})
	}

	ds, err := h.analyzer.CreateFromCSV(bytes.NewReader(body), c.Query("name"))
	if err != nil {
		h.logger.Warn("CSV upload rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Failed to parse CSV",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ds)
}

type fetchRequest struct {
	City string `json:"city" validate:"required"`
	Days int    `json:"days" validate:"omitempty,min=1,max=365"`
}

// FetchDataset handles POST /api/v1/datasets/fetch
func (h *Handler) FetchDataset(c *fiber.Ctx) error {
	var req fetchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid fetch request",
			"details": err.Error(),
		})
	}
	if req.Days == 0 {
		req.Days = 30
	}
	if _, ok := client.LookupCity(req.City); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Unknown city",
			"city":   req.City,
			"cities": client.CityNames(),
		})
	}

	h.logger.Info("Fetching city history",
		zap.String("city", req.City),
		zap.Int("days", req.Days))

	ds, err := h.analyzer.FetchCity(c.Context(), req.City, req.Days)
	if err != nil {
		h.logger.Error("City fetch failed",
			zap.String("city", req.City),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch weather history",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ds)
}

type sampleRequest struct {
	Days int    `json:"days" validate:"omitempty,min=1,max=3660"`
	Seed *int64 `json:"seed"`
}

// CreateSample handles POST /api/v1/datasets/sample
func (h *Handler) CreateSample(c *fiber.Ctx) error {
	var req sampleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid sample request",
			"details": err.Error(),
		})
	}
	if req.Days == 0 {
		req.Days = 365
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ds, err := h.analyzer.CreateSample(req.Days, seed)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Failed to generate sample data",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ds)
}

// DeleteDataset handles DELETE /api/v1/datasets/:id
func (h *Handler) DeleteDataset(c *fiber.Ctx) error {
	if err := h.analyzer.Delete(c.Params("id")); err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSummary handles GET /api/v1/datasets/:id/summary
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.analyzer.Summary(c.Params("id"))
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// GetMonthly handles GET /api/v1/datasets/:id/monthly
func (h *Handler) GetMonthly(c *fiber.Ctx) error {
	column := c.Query("column", analysis.TemperatureColumn)

	monthly, err := h.analyzer.Monthly(c.Params("id"), column)
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(fiber.Map{
		"column":  column,
		"monthly": monthly,
	})
}

// GetSeasonal handles GET /api/v1/datasets/:id/seasonal
func (h *Handler) GetSeasonal(c *fiber.Ctx) error {
	seasonal, err := h.analyzer.Seasonal(c.Params("id"))
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(fiber.Map{"seasonal": seasonal})
}

// GetExtremes handles GET /api/v1/datasets/:id/extremes.
// Without parameters it returns the hottest/coldest/wettest/windiest
// panel; with column (and optional direction) it runs a single lookup.
func (h *Handler) GetExtremes(c *fiber.Ctx) error {
	id := c.Params("id")
	column := c.Query("column")

	if column == "" {
		panel, err := h.analyzer.Extremes(id)
		if err != nil {
			return h.respondAggregateError(c, err)
		}
		return c.JSON(fiber.Map{"extremes": panel})
	}

	dir, err := analysis.ParseDirection(c.Query("direction", string(analysis.DirectionMax)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	rec, err := h.analyzer.Extreme(id, column, dir)
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(rec)
}

// GetTrend handles GET /api/v1/datasets/:id/trend
func (h *Handler) GetTrend(c *fiber.Ctx) error {
	trend, err := h.analyzer.Trend(c.Params("id"))
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(trend)
}

// GetInsights handles GET /api/v1/datasets/:id/insights
func (h *Handler) GetInsights(c *fiber.Ctx) error {
	insights, err := h.analyzer.Insights(c.Params("id"))
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(insights)
}

// GetRecords handles GET /api/v1/datasets/:id/records
func (h *Handler) GetRecords(c *fiber.Ctx) error {
	records, err := h.analyzer.Records(c.Params("id"))
	if err != nil {
		return h.respondAggregateError(c, err)
	}
	return c.JSON(fiber.Map{
		"count":   len(records),
		"records": records,
	})
}

// ExportDataset handles GET /api/v1/datasets/:id/export
func (h *Handler) ExportDataset(c *fiber.Ctx) error {
	id := c.Params("id")

	var buf bytes.Buffer
	if err := h.analyzer.WriteCSV(id, &buf); err != nil {
		return h.respondAggregateError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", id+".csv"))
	return c.Send(buf.Bytes())
}
