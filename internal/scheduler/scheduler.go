package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/services"
)

// Refresher keeps the configured default cities' datasets warm by
// re-fetching them on a fixed interval. Without it a city dataset expires
// with the store TTL and the first dashboard request pays the fetch.
type Refresher struct {
	cron     *cron.Cron
	analyzer *services.Analyzer
	logger   *zap.Logger
	cities   []string
	days     int
	interval time.Duration
}

func NewRefresher(analyzer *services.Analyzer, cities []string, interval time.Duration, days int, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		analyzer: analyzer,
		logger:   logger,
		cities:   cities,
		days:     days,
		interval: interval,
	}
}

// Start schedules the refresh job and triggers one immediate run.
func (r *Refresher) Start() error {
	if len(r.cities) == 0 {
		r.logger.Info("No default cities configured, refresher idle")
		return nil
	}

	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return fmt.Errorf("scheduling refresh job: %w", err)
	}

	r.cron.Start()
	r.logger.Info("Refresher started",
		zap.Duration("interval", r.interval),
		zap.Strings("cities", r.cities))

	// Warm up immediately rather than waiting a full interval.
	go r.refresh()

	return nil
}

func (r *Refresher) refresh() {
	start := time.Now()

	for _, city := range r.cities {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)

		if _, err := r.analyzer.FetchCity(ctx, city, r.days); err != nil {
			r.logger.Error("Scheduled refresh failed",
				zap.String("city", city),
				zap.Error(err))
		}
		cancel()
	}

	r.logger.Info("Scheduled refresh completed",
		zap.Int("cities", len(r.cities)),
		zap.Duration("duration", time.Since(start)))
}

// Stop halts the cron schedule. Running jobs finish on their own.
func (r *Refresher) Stop() {
	r.cron.Stop()
	r.logger.Info("Refresher stopped")
}
