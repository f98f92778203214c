package domain

// AssetType distinguishes the two gazetteer collections.
type AssetType string

const (
	AssetAirport AssetType = "airport"
	AssetHarbour AssetType = "harbour"
)

// Asset is a fixed geographic point of interest from the reference gazetteer.
// Immutable once loaded; the pipeline copies it into incidents, never mutates it.
type Asset struct {
	Type  AssetType `json:"type"`
	Name  string    `json:"name"`
	IATA  string    `json:"iata,omitempty"`
	ICAO  string    `json:"icao,omitempty"`
	OSMID int64     `json:"osm_id,omitempty"`
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
}

// Gazetteer holds the full reference asset set for a run.
type Gazetteer struct {
	Airports []Asset
	Harbours []Asset
}

// Empty reports whether the gazetteer has no assets at all. An empty
// gazetteer is not an error: every report simply fails to resolve.
func (g Gazetteer) Empty() bool {
	return len(g.Airports) == 0 && len(g.Harbours) == 0
}

// Candidates returns the collection to match against for an asset type.
func (g Gazetteer) Candidates(t AssetType) []Asset {
	switch t {
	case AssetAirport:
		return g.Airports
	case AssetHarbour:
		return g.Harbours
	default:
		return nil
	}
}
