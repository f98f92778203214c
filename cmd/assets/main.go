// Command assets downloads the base asset registries (European airports from
// OurAirports, harbours/ports/ferry terminals from Overpass) and writes the
// gazetteer files consumed by cmd/ingest. Run out of band, not on every
// ingestion.
//
// Usage:
//
//	go run ./cmd/assets -airports data/assets/airports.csv -harbours data/assets/harbours.geojson
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/driftline/dronewatch/internal/adapter/registry"
	"github.com/driftline/dronewatch/internal/config"
	"github.com/driftline/dronewatch/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	airportsOut := flag.String("airports", cfg.AirportsPath, "output path for the airports CSV")
	harboursOut := flag.String("harbours", cfg.HarboursPath, "output path for the harbours GeoJSON")
	timeout := flag.Duration("timeout", 3*time.Minute, "per-download timeout")
	flag.Parse()

	builder := registry.NewBuilder(*timeout)
	ctx := context.Background()

	failed := false

	airports, err := builder.BuildAirports(ctx, *airportsOut)
	if err != nil {
		logger.Error("airports download failed", "error", err)
		failed = true
	} else {
		logger.Info("airports written", "path", *airportsOut, "count", airports)
	}

	harbours, err := builder.BuildHarbours(ctx, *harboursOut)
	if err != nil {
		logger.Error("harbours download failed", "error", err)
		failed = true
	} else {
		logger.Info("harbours written", "path", *harboursOut, "count", harbours)
	}

	if failed {
		os.Exit(1)
	}
}
