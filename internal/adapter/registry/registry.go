// Package registry downloads the base asset registries (airports, harbours)
// that the gazetteer loader consumes. Refreshed out of band by cmd/assets,
// not every run.
package registry

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// euISO is the broad-definition European country filter applied to the
// OurAirports dump.
var euISO = map[string]bool{
	"AL": true, "AD": true, "AT": true, "BA": true, "BE": true, "BG": true,
	"BY": true, "CH": true, "CY": true, "CZ": true, "DE": true, "DK": true,
	"EE": true, "ES": true, "FI": true, "FO": true, "FR": true, "GB": true,
	"GI": true, "GR": true, "HR": true, "HU": true, "IE": true, "IS": true,
	"IT": true, "LI": true, "LT": true, "LU": true, "LV": true, "MD": true,
	"ME": true, "MK": true, "MT": true, "NL": true, "NO": true, "PL": true,
	"PT": true, "RO": true, "RS": true, "RU": true, "SE": true, "SI": true,
	"SK": true, "SM": true, "UA": true,
}

// overpassQuery grabs harbours, ports, and ferry terminals in a bounding box
// covering Europe (35..72N, -15..40E), with way/relation centers included.
const overpassQuery = `
[out:json][timeout:60];
(
  node["harbour"](35,-15,72,40);
  way["harbour"](35,-15,72,40);
  relation["harbour"](35,-15,72,40);
  node["amenity"="ferry_terminal"](35,-15,72,40);
  way["amenity"="ferry_terminal"](35,-15,72,40);
  relation["amenity"="ferry_terminal"](35,-15,72,40);
  node["port"](35,-15,72,40);
  way["port"](35,-15,72,40);
  relation["port"](35,-15,72,40);
);
out center tags;
`

// Builder downloads and writes the two gazetteer files.
type Builder struct {
	httpClient  *http.Client
	airportsURL string
	overpassURL string
}

// NewBuilder creates a registry builder with default upstream endpoints.
func NewBuilder(timeout time.Duration) *Builder {
	return &Builder{
		httpClient:  &http.Client{Timeout: timeout},
		airportsURL: "https://ourairports.com/data/airports.csv",
		overpassURL: "https://overpass-api.de/api/interpreter",
	}
}

// BuildAirports downloads the OurAirports CSV, filters to European ISO
// codes, and writes the result to outPath. Returns the row count written.
func (b *Builder) BuildAirports(ctx context.Context, outPath string) (int, error) {
	body, err := b.get(ctx, b.airportsURL)
	if err != nil {
		return 0, fmt.Errorf("download airports: %w", err)
	}
	defer body.Close()

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read airports header: %w", err)
	}
	countryCol := -1
	for i, name := range header {
		if name == "iso_country" {
			countryCol = i
		}
	}
	if countryCol == -1 {
		return 0, fmt.Errorf("airports CSV missing iso_country column")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("create asset dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create airports file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("write airports header: %w", err)
	}

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read airports row: %w", err)
		}
		if countryCol >= len(row) || !euISO[row[countryCol]] {
			continue
		}
		if err := w.Write(row); err != nil {
			return count, fmt.Errorf("write airports row: %w", err)
		}
		count++
	}
	w.Flush()
	return count, w.Error()
}

// BuildHarbours runs the Overpass query and writes a GeoJSON
// FeatureCollection to outPath. Returns the feature count written.
func (b *Builder) BuildHarbours(ctx context.Context, outPath string) (int, error) {
	body, err := b.get(ctx, b.overpassURL+"?data="+url.QueryEscape(overpassQuery))
	if err != nil {
		return 0, fmt.Errorf("download harbours: %w", err)
	}
	defer body.Close()

	var osm overpassResponse
	if err := json.NewDecoder(body).Decode(&osm); err != nil {
		return 0, fmt.Errorf("decode overpass response: %w", err)
	}

	features := make([]geoFeature, 0, len(osm.Elements))
	for _, el := range osm.Elements {
		lat, lon := el.Lat, el.Lon
		if lat == 0 && lon == 0 {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lon == 0 {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = el.Tags["harbour"]
		}
		if name == "" {
			name = el.Tags["ref"]
		}
		if name == "" {
			name = "Unnamed harbour"
		}
		features = append(features, geoFeature{
			Type:     "Feature",
			Geometry: geoGeometry{Type: "Point", Coordinates: []float64{lon, lat}},
			Properties: geoProperties{
				OSMID: el.ID,
				Name:  name,
			},
		})
	}

	doc := geoCollection{Type: "FeatureCollection", Features: features}
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal harbours geojson: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write harbours file: %w", err)
	}
	return len(features), nil
}

func (b *Builder) get(ctx context.Context, fullURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, fullURL)
	}
	return resp.Body, nil
}

// Overpass and GeoJSON wire types.

type overpassResponse struct {
	Elements []struct {
		ID     int64             `json:"id"`
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string        `json:"type"`
	Geometry   geoGeometry   `json:"geometry"`
	Properties geoProperties `json:"properties"`
}

type geoGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type geoProperties struct {
	OSMID int64  `json:"osm_id"`
	Name  string `json:"name"`
}
