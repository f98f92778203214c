// Package gazetteer loads the reference asset files produced by cmd/assets.
package gazetteer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/driftline/dronewatch/internal/domain"
)

// Load reads both gazetteer collections. A missing file loads as an empty
// collection with a warning (reports against that asset type simply fail to
// resolve); a file that exists but cannot be parsed is an error.
func Load(airportsPath, harboursPath string, logger *slog.Logger) (domain.Gazetteer, error) {
	airports, err := LoadAirports(airportsPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Gazetteer{}, err
		}
		logger.Warn("airports file not found; run cmd/assets", "path", airportsPath)
	}

	harbours, err := LoadHarbours(harboursPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Gazetteer{}, err
		}
		logger.Warn("harbours file not found; run cmd/assets", "path", harboursPath)
	}

	g := domain.Gazetteer{Airports: airports, Harbours: harbours}
	if g.Empty() {
		logger.Warn("gazetteer is empty; no report will resolve")
	}
	return g, nil
}

// LoadAirports reads an OurAirports-style CSV. Rows without parseable
// coordinates are skipped.
func LoadAirports(path string) ([]domain.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open airports: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read airports header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"name", "latitude_deg", "longitude_deg"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("airports CSV missing column %q", required)
		}
	}

	var assets []domain.Asset
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read airports row: %w", err)
		}

		lat, errLat := strconv.ParseFloat(field(row, col, "latitude_deg"), 64)
		lon, errLon := strconv.ParseFloat(field(row, col, "longitude_deg"), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		assets = append(assets, domain.Asset{
			Type: domain.AssetAirport,
			Name: strings.TrimSpace(field(row, col, "name")),
			IATA: strings.TrimSpace(field(row, col, "iata_code")),
			ICAO: strings.TrimSpace(field(row, col, "ident")),
			Lat:  lat,
			Lon:  lon,
		})
	}
	return assets, nil
}

// LoadHarbours reads a GeoJSON FeatureCollection of point features.
// Features without coordinates are skipped; unnamed harbours get a
// placeholder name.
func LoadHarbours(path string) ([]domain.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open harbours: %w", err)
	}

	var doc featureCollection
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse harbours geojson: %w", err)
	}

	var assets []domain.Asset
	for _, feature := range doc.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			continue
		}
		name := feature.Properties.Name
		if name == "" {
			name = "Unnamed harbour"
		}
		assets = append(assets, domain.Asset{
			Type:  domain.AssetHarbour,
			Name:  name,
			OSMID: feature.Properties.OSMID,
			// GeoJSON stores lon,lat order.
			Lon: feature.Geometry.Coordinates[0],
			Lat: feature.Geometry.Coordinates[1],
		})
	}
	return assets, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// GeoJSON types, reduced to what the loader needs.

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name  string `json:"name"`
			OSMID int64  `json:"osm_id"`
		} `json:"properties"`
	} `json:"features"`
}
