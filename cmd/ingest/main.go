// Command ingest runs the drone incident ingestion pipeline. With -once it
// executes a single batch and exits; otherwise it runs as a service on the
// configured cron schedule with health/metrics endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/driftline/dronewatch/internal/adapter/feeds"
	"github.com/driftline/dronewatch/internal/adapter/gazetteer"
	"github.com/driftline/dronewatch/internal/adapter/gdelt"
	httpadapter "github.com/driftline/dronewatch/internal/adapter/http"
	kafkaadapter "github.com/driftline/dronewatch/internal/adapter/kafka"
	"github.com/driftline/dronewatch/internal/adapter/ledger"
	"github.com/driftline/dronewatch/internal/config"
	"github.com/driftline/dronewatch/internal/domain"
	"github.com/driftline/dronewatch/internal/observability"
	"github.com/driftline/dronewatch/internal/pipeline"
)

func main() {
	once := flag.Bool("once", false, "run a single ingestion batch and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	g, err := gazetteer.Load(cfg.AirportsPath, cfg.HarboursPath, logger)
	if err != nil {
		logger.Error("failed to load gazetteer", "error", err)
		os.Exit(1)
	}
	logger.Info("gazetteer loaded", "airports", len(g.Airports), "harbours", len(g.Harbours))

	sim := domain.PartialRatio{}
	resolver := domain.NewResolver(g, sim, cfg.ResolveThreshold)
	store := ledger.NewStore(cfg.LedgerPath, logger)

	collectors := []pipeline.Collector{
		gdelt.NewClient(cfg.GDELTBaseURL, cfg.GDELTTimeout, cfg.GDELTTimespan, cfg.GDELTMaxRecords),
	}
	for _, feedURL := range cfg.FeedURLs {
		collectors = append(collectors, feeds.NewCollector(feedURL, cfg.FeedTimeout, cfg.FeedMaxItems))
	}

	var sink pipeline.IncidentSink
	var sinkWriter *kafkaadapter.Writer
	if cfg.SinkEnabled() {
		sinkWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		sink = sinkWriter
		logger.Info("incident stream sink enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(collectors, resolver, sim, store, sink, logger, metrics, cfg.MergeThreshold)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := p.Run(ctx); err != nil {
			logger.Error("ingestion run failed", "error", err)
			os.Exit(1)
		}
		closeSink(sinkWriter, logger)
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Overlapping scheduled runs are skipped, which serializes access to the
	// ledger file within the process.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("ingestion run failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid cron schedule", "schedule", cfg.CronSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("scheduler started", "schedule", cfg.CronSchedule)

	// First run immediately rather than waiting for the first tick.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("ingestion run failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeSink(sinkWriter, logger)

	logger.Info("shutdown complete")
}

func closeSink(w *kafkaadapter.Writer, logger *slog.Logger) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
}
